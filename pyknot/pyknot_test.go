package pyknot_test

import (
	"os"
	"path"
	"testing"

	"github.com/go-python/gpython/py"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/2x3systems/goknot/pyknot"
	_ "github.com/go-python/gpython/stdlib"
)

const script = `
import _pyknot as k

a = k.analyze_named("trefoil", 150)
crossings = a.Crossings()
writhe = a.Writhe()
pd = k.get_pd_code(a)
gauss = k.get_gauss_code(a)
unknot = k.is_unknot(a)
status = k.unknot_status(a)
poly = k.alexander_str(a)
terms = k.alexander(a)

c = k.analyze_curve(k.sample_curve("circle", 40))
circle_status = k.unknot_status(c)
circle_r2 = c.SquaredGyradius()

comps = a.Components()
trefoil_parts = len(comps)
part_crossings = comps[0]["crossings"]
part_writhe = comps[0]["writhe"]

tw = k.analyze_named("twisted", 120)
tw_crossings = tw.Crossings()
tw_pd = k.get_pd_code(tw)
tw_raw_gauss = k.get_gauss_code(tw, simplify=False)
tw_parts = len(tw.Components())

raw = k.analyze_curve(k.sample_curve("twisted", 120), simplify=False)
raw_crossings = raw.Crossings()
raw_pd = k.get_pd_code(raw)
raw_simplified_pd = k.get_pd_code(raw, simplify=True)

ws = k.GetWorkspace()
cat = ws.OpenCatalog("", k.SEED)
names = cat.Identify(a)
cat.Close()

try:
    k.analyze_curve(((0, 0, 0), (1, 0, 0)))
    bad = "accepted"
except ValueError:
    bad = "rejected"
`

func runScript(t *testing.T, src string) py.StringDict {
	t.Helper()
	dir, err := os.MkdirTemp("", "pyknot*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	pathname := path.Join(dir, "script.py")
	require.NoError(t, os.WriteFile(pathname, []byte(src), 0600))

	ctx := py.NewContext(py.DefaultContextOpts())
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()

	module, err := py.RunFile(ctx, pathname, py.CompileOpts{}, nil)
	if err != nil {
		py.TracebackDump(err)
	}
	require.NoError(t, err)
	return module.Globals
}

func TestScript(t *testing.T) {
	g := runScript(t, script)

	assert.Equal(t, py.Int(3), g["crossings"])
	assert.Equal(t, py.Int(-3), g["writhe"])
	assert.Len(t, g["pd"], 3)
	assert.Len(t, g["gauss"], 6)
	assert.Equal(t, py.Tuple{py.Int(1), py.Int(4), py.Int(2), py.Int(5), py.Int(-1)}, g["pd"].(py.Tuple)[0])
	assert.Equal(t, py.False, g["unknot"])
	assert.Equal(t, py.String("knotted"), g["status"])
	assert.Equal(t, py.String("t - 1 + t^-1"), g["poly"])
	assert.Equal(t, py.Tuple{
		py.Tuple{py.Int(-1), py.Int(1)},
		py.Tuple{py.Int(0), py.Int(-1)},
		py.Tuple{py.Int(1), py.Int(1)},
	}, g["terms"])
	assert.Equal(t, py.String("unknot"), g["circle_status"])
	assert.InDelta(t, 1.0, float64(g["circle_r2"].(py.Float)), 1e-12)

	assert.Equal(t, py.Int(1), g["trefoil_parts"])
	assert.Equal(t, py.Int(3), g["part_crossings"])
	assert.Equal(t, py.Int(-3), g["part_writhe"])

	assert.Equal(t, py.Int(0), g["tw_crossings"])
	assert.Len(t, g["tw_pd"], 0)
	assert.Len(t, g["tw_raw_gauss"], 2)
	assert.Equal(t, py.Int(0), g["tw_parts"])

	assert.Equal(t, py.Int(1), g["raw_crossings"])
	assert.Len(t, g["raw_pd"], 1)
	assert.Len(t, g["raw_simplified_pd"], 0)
	assert.Equal(t, py.Tuple{py.String("3_1")}, g["names"])
	assert.Equal(t, py.String("rejected"), g["bad"])
}
