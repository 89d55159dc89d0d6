package sampler

import (
	"testing"

	"github.com/CraigKelly/reparam/model"
	"github.com/CraigKelly/reparam/rand"
)

// unitNormal is a simple spherical standard normal test target
type unitNormal struct {
	dim int
}

func (u *unitNormal) Dim() int {
	return u.dim
}

func (u *unitNormal) ParamNames() []string {
	return make([]string, u.dim)
}

func (u *unitNormal) LogDensity(x []float64) float64 {
	lp := 0.0
	for _, xi := range x {
		lp += -0.5 * xi * xi
	}
	return lp
}

func (u *unitNormal) Gradient(x []float64, grad []float64) error {
	for i, xi := range x {
		grad[i] = -xi
	}
	return nil
}

func (u *unitNormal) Transform(x []float64, out []float64) error {
	copy(out, x)
	return nil
}

func testGen(t *testing.T) *rand.Generator {
	g, err := rand.NewGenerator(42)
	if err != nil {
		t.Fatalf("Could not create generator: %v", err)
	}
	return g
}

func testModel(t *testing.T, dim int) *model.Model {
	m, err := model.NewModel("unit-normal", &unitNormal{dim: dim})
	if err != nil {
		t.Fatalf("Could not create model: %v", err)
	}
	return m
}
