package bench_test

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/odebench/odebench/internal/bench"
	"github.com/odebench/odebench/internal/ode"
	"github.com/odebench/odebench/internal/problems"
)

var _ = Describe("Run", func() {
	var (
		ctx  context.Context
		prob ode.Problem
		cfg  ode.Config
	)

	BeforeEach(func() {
		ctx = context.Background()
		prob = problems.Oscillator()
		cfg = ode.DefaultConfig()
	})

	It("reports a positive elapsed time and the final state", func() {
		tm, err := bench.Run(ctx, prob, ode.DefaultStrategy(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(tm.Elapsed).To(BeNumerically(">", 0))
		Expect(tm.Problem).To(Equal("oscillator"))
		Expect(tm.FinalTime).To(BeNumerically("~", prob.T1, 1e-9))
		Expect(tm.Stats.Steps).To(BeNumerically(">", 0))
	})

	It("propagates solver errors without timing anything", func() {
		strat := ode.Strategy{Algorithm: "simplex"}
		_, err := bench.Run(ctx, prob, strat, cfg)
		Expect(err).To(MatchError(ode.ErrUnknownAlgorithm))
	})

	It("keeps the fastest of repeated runs", func() {
		tm, err := bench.RunBest(ctx, prob, ode.DefaultStrategy(), cfg, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(tm.Elapsed).To(BeNumerically(">", 0))
	})
})

var _ = Describe("Compare", func() {
	It("returns one entry per strategy, sorted by name, keeping failures", func() {
		prob := problems.Oscillator()
		strategies := map[string]ode.Strategy{
			"rk4":   {Algorithm: ode.AlgoRK4},
			"bogus": {Algorithm: "bogus"},
			"dopri": {Algorithm: ode.AlgoDopri},
		}

		entries := bench.Compare(context.Background(), prob, strategies, ode.DefaultConfig())
		Expect(entries).To(HaveLen(3))
		Expect(entries[0].Name).To(Equal("bogus"))
		Expect(entries[1].Name).To(Equal("dopri"))
		Expect(entries[2].Name).To(Equal("rk4"))

		Expect(entries[0].Err).To(MatchError(ode.ErrUnknownAlgorithm))
		Expect(entries[1].Err).NotTo(HaveOccurred())
		Expect(entries[2].Err).NotTo(HaveOccurred())
	})

	It("renders failed rows alongside successful ones", func() {
		entries := []bench.Entry{
			{Name: "good", Timing: bench.Timing{}},
			{Name: "bad", Err: errors.New("boom")},
		}
		var sb strings.Builder
		bench.Render(&sb, "oscillator", entries)

		out := sb.String()
		Expect(out).To(ContainSubstring("oscillator"))
		Expect(out).To(ContainSubstring("good"))
		Expect(out).To(ContainSubstring("error: boom"))
	})
})
