package bench_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/odebench/odebench/internal/bench"
	"github.com/odebench/odebench/internal/ode"
	"github.com/odebench/odebench/internal/problems"
)

// The Robertson kinetics problem is the canonical stiff benchmark: the
// fast species is consumed almost immediately while the slow one takes
// the whole span to accumulate.
var _ = Describe("Robertson benchmark", func() {
	var (
		ctx context.Context
		cfg ode.Config
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = ode.DefaultConfig()
	})

	It("reaches equilibrium under the default strategy", func() {
		prob := problems.Robertson(0.04, 3e7, 1e4)

		tm, err := bench.Run(ctx, prob, ode.DefaultStrategy(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(tm.FinalTime).To(BeNumerically("~", 1e5, 1e-6))

		y := tm.FinalY
		Expect(y).To(HaveLen(3))
		Expect(y[0]).To(BeNumerically("<", 0.1))
		Expect(y[1]).To(BeNumerically(">", 0))
		Expect(y[1]).To(BeNumerically("<", 1e-4))
		Expect(y[2]).To(BeNumerically(">", 0.9))

		// Mass is conserved by construction of the rate equations.
		Expect(y[0] + y[1] + y[2]).To(BeNumerically("~", 1.0, 1e-4))
	})

	It("rejects autodiff Jacobians when the right-hand side cannot carry derivatives", func() {
		prob := problems.RobertsonScratch(0.04, 3e7, 1e4)
		strat := ode.Strategy{
			Algorithm: ode.AlgoRosenbrock,
			Jacobian:  ode.JacAutodiff,
			Linear:    ode.LinDense,
		}

		_, err := bench.Run(ctx, prob, strat, cfg)
		Expect(err).To(MatchError(ode.ErrDualIncompatible))
	})

	It("falls back cleanly to finite differences on the same problem", func() {
		prob := problems.RobertsonScratch(0.04, 3e7, 1e4)
		strat := ode.Strategy{
			Algorithm: ode.AlgoRosenbrock,
			Jacobian:  ode.JacFiniteDiff,
			Linear:    ode.LinDense,
		}

		tm, err := bench.Run(ctx, prob, strat, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(tm.FinalY[2]).To(BeNumerically(">", 0.9))
	})

	It("agrees across Jacobian modes", func() {
		strategies := map[string]ode.Strategy{
			"autodiff": {Algorithm: ode.AlgoRosenbrock, Jacobian: ode.JacAutodiff, Linear: ode.LinDense},
			"findiff":  {Algorithm: ode.AlgoRosenbrock, Jacobian: ode.JacFiniteDiff, Linear: ode.LinDense},
			"analytic": {Algorithm: ode.AlgoRosenbrock, Jacobian: ode.JacAnalytic, Linear: ode.LinDense},
		}

		entries := bench.Compare(ctx, problems.Robertson(0.04, 3e7, 1e4), strategies, cfg)
		for _, e := range entries {
			Expect(e.Err).NotTo(HaveOccurred(), e.Name)
			Expect(e.Timing.FinalY[2]).To(BeNumerically("~", entries[0].Timing.FinalY[2], 1e-3), e.Name)
		}
	})
})
