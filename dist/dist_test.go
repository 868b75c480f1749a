package dist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marquezj/openmc/geom"
	"github.com/marquezj/openmc/particle"
	"github.com/marquezj/openmc/rand"
)

const samples = 10000

func TestBoxParameterCount(t *testing.T) {
	for _, n := range []int{0, 3, 5, 7} {
		_, err := NewBox(make([]float64, n))
		assert.Error(t, err, "box with %d parameters", n)
	}
	_, err := NewBox([]float64{-1, -2, -3, 1, 2, 3})
	assert.NoError(t, err)
}

func TestPointParameterCount(t *testing.T) {
	for _, n := range []int{0, 2, 6} {
		_, err := NewPoint(make([]float64, n))
		assert.Error(t, err, "point with %d parameters", n)
	}
}

func TestBoxSamples(t *testing.T) {
	rng := rand.New(1)
	box, err := NewBox([]float64{-1, -2, -3, 1, 2, 3})
	if err != nil {
		t.Fatal(err.Error())
	}

	var mean geom.Vec
	for i := 0; i < samples; i++ {
		r := box.Sample(rng)
		for k := 0; k < 3; k++ {
			if r[k] < box.LowerLeft[k] || r[k] > box.UpperRight[k] {
				t.Fatalf("%d) Sample %v outside the box", i+1, r)
			}
			mean[k] += r[k]
		}
	}

	for k := 0; k < 3; k++ {
		mean[k] /= samples
		width := box.UpperRight[k] - box.LowerLeft[k]
		if math.Abs(mean[k]) > 0.05*width {
			t.Errorf("Mean along axis %d is %g", k, mean[k])
		}
	}
}

func TestPointSamples(t *testing.T) {
	rng := rand.New(1)
	pt, err := NewPoint([]float64{1, 2, 3})
	if err != nil {
		t.Fatal(err.Error())
	}

	for i := 0; i < 100; i++ {
		assert.Equal(t, geom.Vec{1, 2, 3}, pt.Sample(rng))
	}
}

func TestCartesianOmittedAxes(t *testing.T) {
	rng := rand.New(1)
	u, _ := NewUniform(-1, 1)
	d := NewCartesianIndependent(u, nil, nil)

	for i := 0; i < 100; i++ {
		r := d.Sample(rng)
		if r[1] != 0 || r[2] != 0 {
			t.Fatalf("Omitted axes sampled to %v", r)
		}
		if r[0] < -1 || r[0] > 1 {
			t.Fatalf("x = %g outside [-1, 1]", r[0])
		}
	}
}

func TestCylindricalIdentity(t *testing.T) {
	rng := rand.New(1)
	rDist, _ := NewUniform(0, 2)
	thetaDist, _ := NewUniform(0, 2*math.Pi)
	d := NewCylindricalIndependent(rDist, thetaDist, nil)

	// A second stream with the same seed replays the draws, recovering
	// the r and theta behind each sample.
	check := rand.New(1)
	zDist := DeltaAt(0)

	for i := 0; i < samples; i++ {
		r := d.Sample(rng)
		radius := rDist.Sample(check)
		theta := thetaDist.Sample(check)
		z := zDist.Sample(check)

		want := geom.Vec{radius * math.Cos(theta), radius * math.Sin(theta), z}
		if r != want {
			t.Fatalf("%d) Sampled %v for r = %g, theta = %g", i+1, r, radius, theta)
		}
		if r[2] != 0 {
			t.Fatalf("%d) z = %g for an omitted z axis", i+1, r[2])
		}
	}
}

func TestDiscreteProportions(t *testing.T) {
	rng := rand.New(1)
	d, err := NewDiscrete([]float64{1, 2, 3}, []float64{0.2, 0.3, 0.5})
	if err != nil {
		t.Fatal(err.Error())
	}

	counts := map[float64]int{}
	for i := 0; i < samples; i++ {
		counts[d.Sample(rng)]++
	}

	assert.InDelta(t, 0.2, float64(counts[1])/samples, 0.02)
	assert.InDelta(t, 0.3, float64(counts[2])/samples, 0.02)
	assert.InDelta(t, 0.5, float64(counts[3])/samples, 0.02)
}

func TestDiscreteValidation(t *testing.T) {
	_, err := NewDiscrete([]float64{1, 2}, []float64{0.5})
	assert.Error(t, err, "mismatched lengths")
	_, err = NewDiscrete([]float64{1}, []float64{-1})
	assert.Error(t, err, "negative probability")
	_, err = NewDiscrete([]float64{1, 2}, []float64{0, 0})
	assert.Error(t, err, "zero total probability")
}

func TestDeltaAt(t *testing.T) {
	rng := rand.New(1)
	d := DeltaAt(7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, 7.0, d.Sample(rng))
	}
}

func TestTabularRange(t *testing.T) {
	rng := rand.New(1)
	d, err := NewTabular([]float64{0, 1, 4}, []float64{1, 3, 0.5})
	if err != nil {
		t.Fatal(err.Error())
	}

	for i := 0; i < samples; i++ {
		x := d.Sample(rng)
		if x < 0 || x > 4 {
			t.Fatalf("%d) Sample %g outside [0, 4]", i+1, x)
		}
	}
}

func TestTabularValidation(t *testing.T) {
	_, err := NewTabular([]float64{0, 1, 4}, []float64{1, 3})
	assert.Error(t, err, "mismatched value and probability counts")
	_, err = NewTabular([]float64{0}, []float64{1})
	assert.Error(t, err, "single point")
	_, err = NewTabular([]float64{0, 1, 1}, []float64{1, 1, 1})
	assert.Error(t, err, "non-increasing values")
	_, err = NewTabular([]float64{0, 1}, []float64{1, -1})
	assert.Error(t, err, "negative probability")
	_, err = NewTabular([]float64{0, 1}, []float64{0, 0})
	assert.Error(t, err, "zero total probability")
}

func TestTabularLinearMean(t *testing.T) {
	rng := rand.New(1)
	// Density f(x) = x/2 on [0, 2], so the mean is 4/3.
	d, err := NewTabular([]float64{0, 2}, []float64{0, 1})
	if err != nil {
		t.Fatal(err.Error())
	}

	sum := 0.0
	for i := 0; i < samples; i++ {
		x := d.Sample(rng)
		if x < 0 || x > 2 {
			t.Fatalf("%d) Sample %g outside [0, 2]", i+1, x)
		}
		sum += x
	}
	assert.InEpsilon(t, 4.0/3.0, sum/samples, 0.05)
}

func TestMaxwellMean(t *testing.T) {
	rng := rand.New(1)
	theta := 1.2e6
	d, err := NewMaxwell(theta)
	if err != nil {
		t.Fatal(err.Error())
	}

	sum := 0.0
	for i := 0; i < samples; i++ {
		e := d.Sample(rng)
		if e <= 0 {
			t.Fatalf("%d) Non-positive energy %g", i+1, e)
		}
		sum += e
	}

	// Mean of a Maxwell energy spectrum is 3 theta / 2.
	mean := sum / samples
	assert.InEpsilon(t, 1.5*theta, mean, 0.05)
}

func TestWattPositive(t *testing.T) {
	rng := rand.New(1)
	d, err := NewWatt(DefaultWattA, DefaultWattB)
	if err != nil {
		t.Fatal(err.Error())
	}

	for i := 0; i < samples; i++ {
		if e := d.Sample(rng); e <= 0 {
			t.Fatalf("%d) Non-positive energy %g", i+1, e)
		}
	}
}

func TestIsotropicDirections(t *testing.T) {
	rng := rand.New(1)
	var mean geom.Vec

	for i := 0; i < samples; i++ {
		u := Isotropic{}.SampleDirection(rng)
		if math.Abs(u.Norm()-1) > 1e-10 {
			t.Fatalf("%d) Direction %v has norm %g", i+1, u, u.Norm())
		}
		mean.AddSelf(&u)
	}

	mean.ScaleSelf(1.0 / samples)
	if mean.Norm() > 0.05 {
		t.Errorf("Mean direction %v is not isotropic", mean)
	}
}

func TestMonodirectional(t *testing.T) {
	rng := rand.New(1)

	_, err := NewMonodirectional(geom.Vec{0, 0, 0})
	assert.Error(t, err, "zero direction")

	d, err := NewMonodirectional(geom.Vec{3, 0, 0})
	if err != nil {
		t.Fatal(err.Error())
	}
	assert.Equal(t, geom.Vec{1, 0, 0}, d.SampleDirection(rng))
}

func TestPolarAzimuthal(t *testing.T) {
	rng := rand.New(1)

	_, err := NewPolarAzimuthal(nil, nil, geom.Vec{0, 0, 0})
	assert.Error(t, err, "zero reference axis")

	// A delta mu about the x axis pins the polar cosine of every sample.
	d, err := NewPolarAzimuthal(DeltaAt(0.5), nil, geom.Vec{2, 0, 0})
	if err != nil {
		t.Fatal(err.Error())
	}

	for i := 0; i < 1000; i++ {
		v := d.SampleDirection(rng)
		if math.Abs(v.Norm()-1) > 1e-10 {
			t.Fatalf("%d) Sampled direction has norm %g", i+1, v.Norm())
		}
		if math.Abs(v[0]-0.5) > 1e-10 {
			t.Fatalf("%d) Sampled polar cosine %g instead of 0.5", i+1, v[0])
		}
	}
}

func TestRotateAnglePreservesNorm(t *testing.T) {
	rng := rand.New(1)
	u := geom.Vec{0, 0, 1}

	for i := 0; i < 1000; i++ {
		mu := rng.Uniform(-1, 1)
		phi := rng.Uniform(0, 2*math.Pi)
		v := RotateAngle(&u, mu, phi)

		if math.Abs(v.Norm()-1) > 1e-10 {
			t.Fatalf("%d) Rotated direction has norm %g", i+1, v.Norm())
		}
		if math.Abs(v.Dot(&u)-mu) > 1e-10 {
			t.Fatalf("%d) Scattering cosine %g instead of %g", i+1, v.Dot(&u), mu)
		}
	}
}

func TestSourceDefaults(t *testing.T) {
	rng := rand.New(1)
	pt, _ := NewPoint([]float64{0, 0, 0})
	src := NewSourceDistribution(pt, nil, nil)

	s := &particle.Site{}
	src.SampleSite(rng, s)

	assert.Equal(t, 1.0, s.Wgt)
	assert.Equal(t, -1, s.G)
	assert.True(t, s.E > 0)
	assert.InDelta(t, 1.0, s.U.Norm(), 1e-10)
}
