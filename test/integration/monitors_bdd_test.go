//go:build integration

package integration

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eliteGoblin/focusd/monitors/internal/daemon"
	"github.com/eliteGoblin/focusd/monitors/internal/domain"
	"github.com/eliteGoblin/focusd/monitors/internal/infra"
	"github.com/eliteGoblin/focusd/monitors/internal/monitor"
)

var _ = Describe("Monitors", func() {
	var (
		bus   *infra.Bus
		vars  *infra.Vars
		mgr   *monitor.Manager
		fired int
	)

	count := func(args ...any) error {
		fired++
		return nil
	}

	BeforeEach(func() {
		fired = 0
		bus = infra.NewBus(nil)
		vars = infra.NewVars()
		mux := infra.NewMux(vars)
		mux.Handle("proc", infra.NewProcessEvaluatorWithLister(func() ([]string, error) {
			return []string{"editor", "shell"}, nil
		}))
		mgr = monitor.NewManager(domain.Host{Events: bus, Eval: mux})
	})

	Describe("lifecycle", func() {
		It("should start disabled and cascade enable and disable to listeners", func() {
			m, err := mgr.Create(":trigger-on", []any{"hook", "tick"}, ":on-trigger", count)
			Expect(err).NotTo(HaveOccurred())
			Expect(mgr.IsMonitor(m)).To(BeTrue())
			Expect(m.Enabled()).To(BeFalse())

			Expect(mgr.Enable(m)).To(Succeed())
			Expect(m.Enabled()).To(BeTrue())
			Expect(m.Listeners()[0].Enabled()).To(BeTrue())

			Expect(mgr.Disable(m)).To(Succeed())
			Expect(m.Enabled()).To(BeFalse())
			Expect(m.Listeners()[0].Enabled()).To(BeFalse())
		})

		It("should hold exactly one subscription no matter how often it is enabled", func() {
			m, err := mgr.Create(":trigger-on", []any{"hook", "tick"}, ":on-trigger", count)
			Expect(err).NotTo(HaveOccurred())

			Expect(mgr.Enable(m)).To(Succeed())
			Expect(mgr.Enable(m)).To(Succeed())
			Expect(bus.Subscribers("tick")).To(Equal(1))

			Expect(bus.Publish("tick")).To(Succeed())
			Expect(fired).To(Equal(1))

			Expect(mgr.Disable(m)).To(Succeed())
			Expect(mgr.Disable(m)).To(Succeed())
			Expect(bus.Subscribers("tick")).To(Equal(0))

			Expect(bus.Publish("tick")).To(Succeed())
			Expect(fired).To(Equal(1))
		})
	})

	Describe("guarded trigger", func() {
		Context("when the guard asks for an increase", func() {
			It("should fire once per increase and keep the latest sample", func() {
				vars.Set("x", 0)
				m, err := mgr.Create(
					":trigger-on", []any{"hook", ":hook", "tick", ":guard-trigger", []any{"expr-value", "x", "increased"}},
					":on-trigger", count,
				)
				Expect(err).NotTo(HaveOccurred())
				Expect(mgr.Enable(m)).To(Succeed())

				for _, v := range []int{1, 2, 2} {
					vars.Set("x", v)
					Expect(bus.Publish("tick")).To(Succeed())
				}

				Expect(fired).To(Equal(2))
			})
		})

		Context("when the guard samples the process table", func() {
			It("should not fire while the process count is unchanged", func() {
				m, err := mgr.Create(
					":trigger-on", []any{"hook", ":hook", "tick", ":guard-trigger", []any{"expr-value", "proc:count:editor"}},
					":on-trigger", count,
				)
				Expect(err).NotTo(HaveOccurred())
				Expect(mgr.Enable(m)).To(Succeed())

				Expect(bus.Publish("tick")).To(Succeed())
				Expect(bus.Publish("tick")).To(Succeed())
				Expect(fired).To(Equal(0))
			})
		})
	})

	Describe("errors", func() {
		It("should name the missing hook option", func() {
			_, err := mgr.Create(":trigger-on", []any{"hook"})

			var missing *domain.MissingRequiredOptionError
			Expect(errors.As(err, &missing)).To(BeTrue())
			Expect(missing.Fields).To(ContainElement("hook"))
		})

		It("should reject classes outside the monitor family", func() {
			_, err := mgr.Create(":class", "some-unrelated-class")
			Expect(err).To(MatchError(domain.ErrDoesNotInheritBaseMonitorClass))
		})

		It("should reject enabling something that is not a monitor", func() {
			Expect(mgr.Enable(42)).To(MatchError(domain.ErrTypeMismatch))
		})
	})

	Describe("pulse", func() {
		It("should drive a defined monitor until the context ends", func() {
			_, err := mgr.Define("ticks", ":trigger-on", []any{"hook", "tick"}, ":on-trigger", count)
			Expect(err).NotTo(HaveOccurred())
			Expect(mgr.Enable("ticks")).To(Succeed())

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			pulse := daemon.NewPulse(daemon.Config{Hooks: map[string]time.Duration{"tick": 10 * time.Millisecond}}, bus, nil)
			Expect(pulse.Run(ctx)).To(MatchError(context.DeadlineExceeded))

			Expect(fired).To(BeNumerically(">=", 2))

			Expect(mgr.Remove("ticks")).To(Succeed())
			Expect(bus.Subscribers("tick")).To(Equal(0))
		})
	})
})
