// Package pyknot registers the gpython module "_pyknot", exposing curve analysis to scripts.
package pyknot

import (
	"context"
	"os"
	"strings"

	"github.com/2x3systems/goknot/goknot"
	"github.com/2x3systems/goknot/libknot"
	"github.com/2x3systems/goknot/libknot/catalog"
	"github.com/2x3systems/goknot/libknot/curves"
	"github.com/2x3systems/goknot/libknot/diagram"
	"github.com/go-python/gpython/py"
)

var (
	LIB_VERSION = "v1.2026.1"

	// DefaultOptions are the analysis options of scripts that do not call set_options().
	DefaultOptions = goknot.DefaultOptions()
)

var (
	pyAnalyzerType  = py.NewType("Analyzer", "a closed space curve together with its cached diagram and invariants")
	pyCatalogType   = py.NewType("Catalog", "goknot.Catalog")
	pyWorkspaceType = py.NewType("Workspace", "collects active session resources and catalogs")
)

const (
	READ_ONLY = 0x01
	SEED      = 0x02

	kWorkspaceAttr = "_Workspace"
	kOptionsAttr   = "_Options"
)

type pyAnalyzer struct {
	*libknot.Analyzer
	simplify bool // if set, codes and counts describe the simplified diagram
}

func (a pyAnalyzer) Type() *py.Type {
	return pyAnalyzerType
}

func (a pyAnalyzer) M__str__() (py.Object, error) {
	writer := strings.Builder{}
	a.WriteAsString(&writer, goknot.DefaultPrintOpts)
	return py.String(writer.String()), nil
}

func (a pyAnalyzer) M__repr__() (py.Object, error) {
	return a.M__str__()
}

// wrapErr converts a pipeline error into a python exception.
func wrapErr(err error) error {
	switch goknot.KindOf(err) {
	case goknot.KindInvalidCurve, goknot.KindBadDiagram:
		return py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.ExceptionNewf(py.RuntimeError, "%v", err)
}

// simplifyArg reads the "simplify" keyword, returning def if it is absent.
func simplifyArg(kwargs py.StringDict, def bool) (bool, error) {
	for key := range kwargs {
		if key != "simplify" {
			return def, py.ExceptionNewf(py.TypeError, "unexpected keyword argument %q", key)
		}
	}
	if obj, ok := kwargs["simplify"]; ok {
		return py.ObjectIsTrue(obj)
	}
	return def, nil
}

// selected returns the simplified diagram or the diagram as projected.
func (a pyAnalyzer) selected(simplify bool) (*diagram.Diagram, error) {
	if !simplify {
		return a.Diagram()
	}
	res, err := a.Simplified()
	if err != nil {
		return nil, err
	}
	return res.Diagram, nil
}

func pdTuple(pd goknot.PDCode) py.Tuple {
	out := make(py.Tuple, len(pd))
	for i, Xi := range pd {
		out[i] = py.Tuple{
			py.Int(Xi.Arcs[0]), py.Int(Xi.Arcs[1]), py.Int(Xi.Arcs[2]), py.Int(Xi.Arcs[3]),
			py.Int(Xi.Sign),
		}
	}
	return out
}

func gaussTuple(G goknot.GaussCode) py.Tuple {
	out := make(py.Tuple, len(G))
	for i, Vi := range G {
		out[i] = py.Tuple{py.Int(Vi.Crossing), py.NewBool(Vi.Over), py.Int(Vi.Sign)}
	}
	return out
}

func getAnalyzer(obj py.Object) (pyAnalyzer, error) {
	a, ok := obj.(pyAnalyzer)
	if !ok {
		return pyAnalyzer{}, py.ExceptionNewf(py.TypeError, "expected Analyzer object (got %v)", obj.Type().Name)
	}
	return a, nil
}

// moduleOptions returns the analysis options set with set_options(), or DefaultOptions.
func moduleOptions(module py.Object) goknot.Options {
	if obj, _ := py.GetAttrString(module, kOptionsAttr); obj != nil {
		if opts, ok := obj.(pyOptions); ok {
			return opts.Options
		}
	}
	return DefaultOptions
}

type pyOptions struct {
	goknot.Options
}

var pyOptionsType = py.NewType("Options", "goknot.Options")

func (opts pyOptions) Type() *py.Type {
	return pyOptionsType
}

// Arg 1 (str): YAML options document
func py_SetOptions(module py.Object, args py.Tuple) (py.Object, error) {
	var src string
	if err := py.LoadTuple(args, []interface{}{&src}); err != nil {
		return nil, err
	}
	opts, err := goknot.ParseOptions([]byte(src))
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	py.SetAttrString(module, kOptionsAttr, pyOptions{opts})
	return py.None, nil
}

func loadPoint(obj py.Object) (pt goknot.Point, err error) {
	coords, err := py.SequenceTuple(obj)
	if err != nil {
		return
	}
	if len(coords) != 3 {
		err = py.ExceptionNewf(py.ValueError, "expected 3 coordinates (got %d)", len(coords))
		return
	}
	for i, ci := range coords {
		var f py.Object
		if f, err = py.MakeFloat(ci); err != nil {
			return
		}
		pt[i] = float64(f.(py.Float))
	}
	return
}

// Arg 1 (sequence of (x, y, z)): vertices of a closed polygon
// kwarg simplify (bool, default True): report the simplified diagram
func py_AnalyzeCurve(module py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "analyze_curve() takes 1 argument (%d given)", len(args))
	}
	simplify, err := simplifyArg(kwargs, true)
	if err != nil {
		return nil, err
	}
	items, err := py.SequenceTuple(args[0])
	if err != nil {
		return nil, err
	}
	pts := make([]goknot.Point, len(items))
	for i, item := range items {
		if pts[i], err = loadPoint(item); err != nil {
			return nil, err
		}
	}

	a, err := libknot.AnalyzeCurve(pts, moduleOptions(module))
	if err != nil {
		return nil, wrapErr(err)
	}
	return pyAnalyzer{a, simplify}, nil
}

func sampleNamed(args py.Tuple) ([]goknot.Point, error) {
	var name string
	var N int32 = 200
	if err := py.LoadTuple(args, []interface{}{&name, &N}); err != nil {
		return nil, err
	}
	fn := curves.ByName[name]
	if fn == nil {
		return nil, py.ExceptionNewf(py.KeyError, "unknown curve %q", name)
	}
	if N < 3 {
		return nil, py.ExceptionNewf(py.ValueError, "need at least 3 samples (got %d)", N)
	}
	return curves.Sample(fn, int(N)), nil
}

// Arg 1 (str): curve name
// Arg 2 (int): number of samples
func py_SampleCurve(module py.Object, args py.Tuple) (py.Object, error) {
	pts, err := sampleNamed(args)
	if err != nil {
		return nil, err
	}
	out := make(py.Tuple, len(pts))
	for i, pt := range pts {
		out[i] = py.Tuple{py.Float(pt[0]), py.Float(pt[1]), py.Float(pt[2])}
	}
	return out, nil
}

// Arg 1 (str): curve name
// Arg 2 (int): number of samples
// kwarg simplify (bool, default True): report the simplified diagram
func py_AnalyzeNamed(module py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	simplify, err := simplifyArg(kwargs, true)
	if err != nil {
		return nil, err
	}
	pts, err := sampleNamed(args)
	if err != nil {
		return nil, err
	}
	a, err := libknot.AnalyzeCurve(pts, moduleOptions(module))
	if err != nil {
		return nil, wrapErr(err)
	}
	return pyAnalyzer{a, simplify}, nil
}

// kwarg simplify (bool): defaults to the analyzer's own setting
// Returns a tuple of (a, b, c, d, sign) tuples
func py_GetPDCode(module py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	a, err := analyzerArg(args)
	if err != nil {
		return nil, err
	}
	simplify, err := simplifyArg(kwargs, a.simplify)
	if err != nil {
		return nil, err
	}
	d, err := a.selected(simplify)
	if err != nil {
		return nil, wrapErr(err)
	}
	return pdTuple(d.PDCode()), nil
}

// kwarg simplify (bool): defaults to the analyzer's own setting
// Returns a tuple of (crossing, over, sign) tuples
func py_GetGaussCode(module py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	a, err := analyzerArg(args)
	if err != nil {
		return nil, err
	}
	simplify, err := simplifyArg(kwargs, a.simplify)
	if err != nil {
		return nil, err
	}
	d, err := a.selected(simplify)
	if err != nil {
		return nil, wrapErr(err)
	}
	return gaussTuple(d.GaussCode()), nil
}

func py_IsUnknot(module py.Object, args py.Tuple) (py.Object, error) {
	a, err := analyzerArg(args)
	if err != nil {
		return nil, err
	}
	ok, err := a.IsUnknot()
	if err != nil {
		return nil, wrapErr(err)
	}
	return py.NewBool(ok), nil
}

// Returns "unknot", "knotted" or "undetermined"
func py_UnknotStatus(module py.Object, args py.Tuple) (py.Object, error) {
	a, err := analyzerArg(args)
	if err != nil {
		return nil, err
	}
	v, err := a.Verdict(context.Background())
	if err != nil {
		return nil, wrapErr(err)
	}
	return py.String(v.String()), nil
}

// Returns the normalized Alexander polynomial as a tuple of (exponent, coefficient) pairs
func py_Alexander(module py.Object, args py.Tuple) (py.Object, error) {
	a, err := analyzerArg(args)
	if err != nil {
		return nil, err
	}
	P, err := a.Alexander(context.Background())
	if err != nil {
		return nil, wrapErr(err)
	}
	out := make(py.Tuple, len(P))
	for i, Ti := range P {
		out[i] = py.Tuple{py.Int(Ti.Exp), py.Int(Ti.Coeff)}
	}
	return out, nil
}

func py_AlexanderStr(module py.Object, args py.Tuple) (py.Object, error) {
	a, err := analyzerArg(args)
	if err != nil {
		return nil, err
	}
	P, err := a.Alexander(context.Background())
	if err != nil {
		return nil, wrapErr(err)
	}
	return py.String(P.String()), nil
}

func analyzerArg(args py.Tuple) (pyAnalyzer, error) {
	if len(args) != 1 {
		return pyAnalyzer{}, py.ExceptionNewf(py.TypeError, "expected 1 Analyzer argument (%d given)", len(args))
	}
	return getAnalyzer(args[0])
}

func py_Analyzer_Crossings(self py.Object, args py.Tuple) (py.Object, error) {
	a := self.(pyAnalyzer)
	d, err := a.selected(a.simplify)
	if err != nil {
		return nil, wrapErr(err)
	}
	return py.Int(d.NumCrossings()), nil
}

func py_Analyzer_Writhe(self py.Object, args py.Tuple) (py.Object, error) {
	a := self.(pyAnalyzer)
	d, err := a.selected(a.simplify)
	if err != nil {
		return nil, wrapErr(err)
	}
	return py.Int(d.Writhe()), nil
}

func py_Analyzer_SquaredGyradius(self py.Object, args py.Tuple) (py.Object, error) {
	a := self.(pyAnalyzer)
	r2, err := a.SquaredGyradius()
	if err != nil {
		return nil, wrapErr(err)
	}
	return py.Float(r2), nil
}

// Returns a tuple holding a dict per connected summand with keys "crossings", "writhe", "pd" and "gauss"
func py_Analyzer_Components(self py.Object, args py.Tuple) (py.Object, error) {
	a := self.(pyAnalyzer)
	summands, err := a.Summands()
	if err != nil {
		return nil, wrapErr(err)
	}
	out := make(py.Tuple, len(summands))
	for i, s := range summands {
		out[i] = py.StringDict{
			"crossings": py.Int(s.NumCrossings()),
			"writhe":    py.Int(s.Writhe()),
			"pd":        pdTuple(s.PDCode()),
			"gauss":     gaussTuple(s.GaussCode()),
		}
	}
	return out, nil
}

type Workspace struct {
	CatalogCtx goknot.CatalogContext
}

func (ws *Workspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		ws := &Workspace{
			CatalogCtx: goknot.NewCatalogContext(),
		}
		wsObj = ws
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

func py_Workspace_CatalogExists(self py.Object, args py.Tuple) (py.Object, error) {
	_ = self.(*Workspace)

	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(pathname)
	if os.IsNotExist(err) {
		return py.False, nil
	}
	return py.True, nil
}

// Arg 1 (str): catalog pathname ("" for in-memory)
// Arg 2 (int): READ_ONLY and/or SEED flags
func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname string
	var flags int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags})
	if err != nil {
		return nil, err
	}

	opts := goknot.CatalogOpts{
		ReadOnly:   (flags & READ_ONLY) != 0,
		Seed:       (flags & SEED) != 0,
		DbPathName: pathname,
	}

	cat, err := catalog.OpenCatalog(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Object(pyCatalog{cat}), nil
}

type pyCatalog struct {
	goknot.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.Catalog != nil {
		cat.Close()
	}
	return py.None, nil
}

func py_Catalog_NumEntries(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	return py.Int(cat.NumEntries()), nil
}

// Arg 1 (Analyzer): curve to identify
// Returns a tuple of the names of the catalogued knots sharing its invariant
func py_Catalog_Identify(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	a, err := analyzerArg(args)
	if err != nil {
		return nil, err
	}
	hits, err := a.Identify(context.Background(), cat.Catalog)
	if err != nil {
		return nil, wrapErr(err)
	}
	names := make(py.Tuple, len(hits))
	for i, hit := range hits {
		names[i] = py.String(hit.Name)
	}
	return names, nil
}

func init() {

	/////////////////////////////////
	// Analyzer
	{
		pyAnalyzerType.Dict["Crossings"] = py.MustNewMethod("Crossings", py_Analyzer_Crossings, 0, "number of crossings of the diagram")
		pyAnalyzerType.Dict["Writhe"] = py.MustNewMethod("Writhe", py_Analyzer_Writhe, 0, "sum of the crossing signs of the diagram")
		pyAnalyzerType.Dict["SquaredGyradius"] = py.MustNewMethod("SquaredGyradius", py_Analyzer_SquaredGyradius, 0, "mean squared distance of the vertices from their centroid")
		pyAnalyzerType.Dict["Components"] = py.MustNewMethod("Components", py_Analyzer_Components, 0, "connected summands of the simplified diagram")
	}

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["Identify"] = py.MustNewMethod("Identify", py_Catalog_Identify, 0, "")
		pyCatalogType.Dict["NumEntries"] = py.MustNewMethod("NumEntries", py_Catalog_NumEntries, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
		pyWorkspaceType.Dict["CatalogExists"] = py.MustNewMethod("CatalogExists", py_Workspace_CatalogExists, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("analyze_curve", py_AnalyzeCurve, 0, "analyze_curve(points, simplify=True) -> Analyzer"),
			py.MustNewMethod("analyze_named", py_AnalyzeNamed, 0, "analyze_named(name, samples, simplify=True) -> Analyzer"),
			py.MustNewMethod("sample_curve", py_SampleCurve, 0, "sample_curve(name, samples) -> points"),
			py.MustNewMethod("set_options", py_SetOptions, 0, "set_options(yaml)"),
			py.MustNewMethod("get_pd_code", py_GetPDCode, 0, "get_pd_code(analyzer, simplify=True) -> ((a, b, c, d, sign), ...)"),
			py.MustNewMethod("get_gauss_code", py_GetGaussCode, 0, "get_gauss_code(analyzer, simplify=True) -> ((crossing, over, sign), ...)"),
			py.MustNewMethod("is_unknot", py_IsUnknot, 0, "is_unknot(analyzer) -> bool"),
			py.MustNewMethod("unknot_status", py_UnknotStatus, 0, "unknot_status(analyzer) -> str"),
			py.MustNewMethod("alexander", py_Alexander, 0, "alexander(analyzer) -> ((exponent, coefficient), ...)"),
			py.MustNewMethod("alexander_str", py_AlexanderStr, 0, "alexander_str(analyzer) -> str"),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"READ_ONLY":   py.Int(READ_ONLY),
			"SEED":        py.Int(SEED),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_pyknot",
				Doc:  "knot diagrams and invariants of closed space curves",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}
