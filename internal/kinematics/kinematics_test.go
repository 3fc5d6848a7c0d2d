package kinematics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/fmom"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSum(t *testing.T) {
	t.Parallel()

	a := fmom.NewPxPyPzE(1, 2, 3, 10)
	b := fmom.NewPxPyPzE(-4, 5, -6, 20)
	c := fmom.NewPxPyPzE(0.5, -0.5, 0.25, 1)

	got := Sum(&a, &b, &c)
	assert.Equal(t, -2.5, got.Px())
	assert.Equal(t, 6.5, got.Py())
	assert.Equal(t, -2.75, got.Pz())
	assert.Equal(t, 31.0, got.E())
}

func TestBoostIntoRestFrame(t *testing.T) {
	t.Parallel()

	// A 1 GeV/c^2 particle with sizeable momentum along all axes.
	p := fmom.NewPxPyPzE(300, -400, 1200, math.Sqrt(300*300+400*400+1200*1200+1000*1000))

	r := BoostInto(&p, &p)
	assert.InDelta(t, 0, r.Px(), 1e-9)
	assert.InDelta(t, 0, r.Py(), 1e-9)
	assert.InDelta(t, 0, r.Pz(), 1e-9)
	assert.InDelta(t, p.M(), r.E(), 1e-9)
}

func TestBoostIntoPreservesMass(t *testing.T) {
	t.Parallel()

	p := fmom.NewPxPyPzE(120, 45, -300, 600)
	frame := fmom.NewPxPyPzE(-50, 80, 900, 2000)

	b := BoostInto(&p, &frame)
	assert.InDelta(t, p.M(), b.M(), 1e-9)
}

func TestUnitDirAtRestIsNaN(t *testing.T) {
	t.Parallel()

	rest := fmom.NewPxPyPzE(0, 0, 0, 493.677)
	u := UnitDir(&rest)
	assert.True(t, math.IsNaN(u.X))
	assert.True(t, math.IsNaN(u.Y))
	assert.True(t, math.IsNaN(u.Z))
}

func TestPlaneNormalOrthogonality(t *testing.T) {
	t.Parallel()

	a := fmom.NewPxPyPzE(100, 20, 30, 500)
	b := fmom.NewPxPyPzE(-40, 250, 60, 700)

	n := PlaneNormal(&a, &b)
	assert.InDelta(t, 1, r3.Norm(n), 1e-12)
	assert.InDelta(t, 0, r3.Dot(n, UnitDir(&a)), 1e-12)
	assert.InDelta(t, 0, r3.Dot(n, UnitDir(&b)), 1e-12)
}

func TestPlaneAngle(t *testing.T) {
	t.Parallel()

	x := r3.Vec{X: 1}
	y := r3.Vec{Y: 1}
	z := r3.Vec{Z: 1}

	tests := []struct {
		name       string
		n1, n2, ref r3.Vec
		want       float64
	}{
		{"coplanar", x, x, z, 0},
		{"quarter turn", x, y, z, math.Pi / 2},
		{"quarter turn flipped ref", x, y, r3.Scale(-1, z), -math.Pi / 2},
		{"eighth turn", x, r3.Vec{X: 1, Y: 1}, z, math.Pi / 4},
		{"opposite normals", x, r3.Scale(-1, x), z, math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := PlaneAngle(tt.n1, tt.n2, tt.ref)
			assert.InDelta(t, tt.want, got, 1e-15)
		})
	}
}

func TestPlaneAngleVerified(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		n1, n2, ref r3.Vec
		maxDiff     float64
	}{
		{"generic", r3.Vec{X: 0.3, Y: -0.2, Z: 0.9}, r3.Vec{X: -0.5, Y: 0.7, Z: 0.1}, r3.Vec{X: 0.1, Y: 0.2, Z: -0.9}, 1e-12},
		{"orthogonal", r3.Vec{X: 1}, r3.Vec{Y: 1}, r3.Vec{Z: 1}, 1e-12},
		// acos is ill-conditioned near +-1, which is the whole reason the
		// cross-check exists. Expect agreement only at the sqrt(eps) level.
		{"near parallel", r3.Vec{X: 1, Y: 1e-8}, r3.Vec{X: 1, Y: -1e-8}, r3.Vec{Z: 1}, 1e-6},
		{"near antiparallel", r3.Vec{X: 1, Y: 1e-8}, r3.Vec{X: -1, Y: 1e-8}, r3.Vec{Z: 1}, 1e-6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			phi, diff := PlaneAngleVerified(tt.n1, tt.n2, tt.ref)
			assert.Equal(t, PlaneAngle(tt.n1, tt.n2, tt.ref), phi,
				"verification must not perturb the primary result")
			assert.LessOrEqual(t, diff, tt.maxDiff)
		})
	}
}

func TestAngleRangeConversions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, ToZeroTwoPi(0))
	assert.Equal(t, math.Pi/2, ToZeroTwoPi(math.Pi/2))
	assert.InDelta(t, 3*math.Pi/2, ToZeroTwoPi(-math.Pi/2), 1e-15)
	assert.Equal(t, math.Pi, ToZeroTwoPi(math.Pi))

	assert.InDelta(t, -math.Pi/2, ToNegPiPi(3*math.Pi/2), 1e-15)
	assert.Equal(t, math.Pi/2, ToNegPiPi(math.Pi/2))

	for _, phi := range []float64{-3, -1, -1e-6, 0, 1, 3} {
		assert.InDelta(t, phi, ToNegPiPi(ToZeroTwoPi(phi)), 1e-12)
	}
}

func TestDegreeConversions(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 180, RadToDeg(math.Pi), 1e-12)
	assert.InDelta(t, math.Pi, DegToRad(180), 1e-12)
	assert.InDelta(t, 1.5, DegToRad(RadToDeg(1.5)), 1e-15)
}

func TestHelicityCosine(t *testing.T) {
	t.Parallel()

	// Pair flying along +z with mass 800 MeV.
	pair := fmom.NewPxPyPzE(0, 0, 500, math.Sqrt(500*500+800*800))
	toLab := fmom.BoostOf(&pair)

	boostToLab := func(rest fmom.PxPyPzE) fmom.PxPyPzE {
		b := fmom.Boost(&rest, toLab)
		return fmom.NewPxPyPzE(b.Px(), b.Py(), b.Pz(), b.E())
	}

	t.Run("forward daughter", func(t *testing.T) {
		t.Parallel()
		rest := fmom.NewPxPyPzE(0, 0, 100, math.Sqrt(100*100+140*140))
		lab := boostToLab(rest)
		got := HelicityCosine(&lab, &pair, r3.Vec{Z: 1})
		assert.InDelta(t, 1, got, 1e-12)
	})

	t.Run("backward daughter", func(t *testing.T) {
		t.Parallel()
		rest := fmom.NewPxPyPzE(0, 0, -100, math.Sqrt(100*100+140*140))
		lab := boostToLab(rest)
		got := HelicityCosine(&lab, &pair, r3.Vec{Z: 1})
		assert.InDelta(t, -1, got, 1e-12)
	})

	t.Run("transverse daughter", func(t *testing.T) {
		t.Parallel()
		rest := fmom.NewPxPyPzE(100, 0, 0, math.Sqrt(100*100+140*140))
		lab := boostToLab(rest)
		got := HelicityCosine(&lab, &pair, r3.Vec{Z: 1})
		assert.InDelta(t, 0, got, 1e-12)
	})
}

func TestEqualTol(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"identical", 1.5, 1.5, true},
		{"one ulp at unity", 1.0, 1.0 + 0x1p-53, true},
		{"relative at large magnitude", 1e10, 1e10 * (1 + 0x1p-53), true},
		{"absolute near zero", 0, 1e-20, true},
		{"clearly apart", 1, 1.0001, false},
		{"nan never equal", math.NaN(), math.NaN(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, EqualTol(tt.x, tt.y))
		})
	}

	require.True(t, EqualExact(2.5, 2.5))
	require.False(t, EqualExact(2.5, 2.5+0x1p-50))
}
