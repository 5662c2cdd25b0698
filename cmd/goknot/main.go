package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/2x3systems/goknot/goknot"
	"github.com/2x3systems/goknot/libknot"
	"github.com/2x3systems/goknot/libknot/catalog"
	"github.com/2x3systems/goknot/libknot/curves"
	"github.com/2x3systems/goknot/pyknot"
	"github.com/go-python/gpython/py"
	"github.com/go-python/gpython/repl"
	"github.com/go-python/gpython/repl/cli"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	_ "github.com/go-python/gpython/stdlib"
)

var (
	configPath  = flag.String("config", "", "YAML file of analysis options")
	curveName   = flag.String("curve", "", "analyze a built-in curve (circle, twisted, trefoil, figure-eight) instead of running a script")
	numSamples  = flag.Int("samples", 200, "number of vertices sampled from -curve")
	catalogPath = flag.String("catalog", "", "knot catalog to identify -curve against (\"mem\" for a seeded in-memory catalog)")
	showPD      = flag.Bool("pd", false, "also print the PD code of -curve")
)

func main() {

	klog.InitFlags(nil)
	flag.Set("logtostderr", "true")
	flag.Set("v", "1")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	flag.Parse()

	opts, err := loadOptions(*configPath)
	if err != nil {
		klog.Errorf("%v", err)
		klog.Flush()
		os.Exit(2)
	}

	if *curveName != "" {
		err = analyzeNamed(opts)
	} else {
		pyknot.DefaultOptions = opts
		if flag.NArg() == 0 {
			runREPL()
		} else {
			err = runScripts(flag.Args())
		}
	}

	klog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadOptions(pathname string) (goknot.Options, error) {
	if pathname == "" {
		return goknot.DefaultOptions(), nil
	}
	buf, err := os.ReadFile(pathname)
	if err != nil {
		return goknot.Options{}, err
	}
	opts, err := goknot.ParseOptions(buf)
	if err != nil {
		return goknot.Options{}, errors.Wrap(err, pathname)
	}
	klog.V(1).Infof("loaded options from %s", pathname)
	return opts, nil
}

func analyzeNamed(opts goknot.Options) error {
	fn := curves.ByName[*curveName]
	if fn == nil {
		return errors.Errorf("unknown curve %q", *curveName)
	}

	a, err := libknot.AnalyzeCurve(curves.Sample(fn, *numSamples), opts)
	if err != nil {
		return err
	}

	printOpts := goknot.DefaultPrintOpts
	printOpts.Label = fmt.Sprintf("%s (%d samples)", *curveName, *numSamples)
	printOpts.PD = *showPD
	a.WriteAsString(os.Stdout, printOpts)

	if *catalogPath == "" {
		return nil
	}

	catCtx := goknot.NewCatalogContext()
	defer func() {
		catCtx.Close()
		<-catCtx.Done()
	}()

	catOpts := goknot.CatalogOpts{
		DbPathName: *catalogPath,
		Seed:       true,
	}
	if *catalogPath == "mem" {
		catOpts.DbPathName = ""
	}
	cat, err := catalog.OpenCatalog(catCtx, catOpts)
	if err != nil {
		return err
	}
	hits, err := a.Identify(context.Background(), cat)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println("  catalog: no match")
	}
	for _, hit := range hits {
		fmt.Printf("  catalog: %s (crossing number %d)\n", hit.Name, hit.CrossingNumber)
	}
	return nil
}

// runREPL starts an interactive session; scripts there begin with "import _pyknot".
func runREPL() {
	ctx := py.NewContext(py.DefaultContextOpts())
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()
	fmt.Printf("_pyknot %s: try  import _pyknot as knot; print(knot.analyze_named(\"trefoil\", 150))\n", pyknot.LIB_VERSION)
	cli.RunREPL(repl.New(ctx))
}

// runScripts runs each script in its own interpreter context, so options set by one script do not leak
// into the next.  It stops at the first script that raises.
func runScripts(pathnames []string) error {
	for _, pathname := range pathnames {
		if err := runScript(pathname); err != nil {
			return errors.Wrap(err, pathname)
		}
	}
	return nil
}

func runScript(pathname string) error {
	ctx := py.NewContext(py.DefaultContextOpts())
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()

	start := time.Now()
	klog.V(1).Infof("running %s", pathname)
	_, err := py.RunFile(ctx, pathname, py.CompileOpts{}, nil)
	if err != nil {
		py.TracebackDump(err)
		return err
	}
	klog.V(1).Infof("%s done in %v", pathname, time.Since(start))
	return nil
}
