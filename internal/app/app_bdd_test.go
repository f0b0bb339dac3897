package app_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"safecalc/internal/app"
	"safecalc/internal/calc"
	"safecalc/internal/core/breathing"
	"safecalc/internal/core/clock"
	"safecalc/internal/core/model"
	"safecalc/internal/settings"
)

var _ = Describe("Guardian", func() {
	var (
		manual     *clock.Manual
		guardian   *app.Guardian
		calculator *calc.Calculator
		modes      <-chan app.ModeEvent
	)

	press := func(keys ...calc.Key) {
		detector := guardian.Detector()
		for _, key := range keys {
			display := calculator.Press(key)
			if key.IsDigit() {
				detector.OnDigitEntered(string(key), manual.Now())
			}
			detector.OnDisplayChanged(display)
			manual.Advance(300 * time.Millisecond)
		}
	}

	start := func(prefs settings.Settings) {
		manual = clock.NewManual(time.Date(2024, 6, 1, 22, 0, 0, 0, time.UTC))
		guardian = app.New(prefs, app.Options{Clock: manual})
		calculator = calc.New()
		modes = guardian.Subscribe(8)
	}

	AfterEach(func() {
		guardian.Close()
	})

	Describe("code trigger", func() {
		BeforeEach(func() {
			prefs := settings.DefaultSettings()
			prefs.TriggerPattern = model.PatternCode
			start(prefs)
		})

		Context("when the code is typed as a calculation", func() {
			It("should stay disguised", func() {
				press("9", calc.KeyAdd, "1", "1")
				Expect(guardian.Mode()).To(Equal(app.ModeDisguised))
			})
		})

		Context("when the display reads the code", func() {
			It("should open the emergency screen exactly once", func() {
				press("9", "1", "1")
				Expect(guardian.Mode()).To(Equal(app.ModeEmergency))

				press(calc.KeyClear, "9", "1", "1")
				Expect(modes).To(HaveLen(1))

				event := <-modes
				Expect(event.Reason).To(Equal(app.ReasonTrigger))
			})
		})
	})

	Describe("triple tap trigger", func() {
		BeforeEach(func() {
			start(settings.DefaultSettings())
		})

		Context("when digits arrive slower than the tap window", func() {
			It("should not fire", func() {
				for i := 0; i < 4; i++ {
					press("5")
					manual.Advance(600 * time.Millisecond)
				}
				Expect(guardian.Mode()).To(Equal(app.ModeDisguised))
			})
		})

		Context("when three digits arrive quickly", func() {
			It("should fire and rearm after the user is safe", func() {
				press("1", "2", "3")
				Expect(guardian.Mode()).To(Equal(app.ModeEmergency))

				guardian.ResolveEmergency()
				Expect(guardian.Mode()).To(Equal(app.ModeDisguised))

				press("4", "5", "6")
				Expect(guardian.Mode()).To(Equal(app.ModeEmergency))
			})
		})
	})

	Describe("guided breathing from the emergency screen", func() {
		var completions []breathing.Completion

		BeforeEach(func() {
			prefs := settings.DefaultSettings()
			prefs.BreathingDuration = time.Minute
			start(prefs)
			completions = nil
			guardian.Breathing().SetOnComplete(func(completion breathing.Completion) {
				completions = append(completions, completion)
			})
			press("7", "7", "7")
		})

		It("should run to completion once and stop", func() {
			guardian.StartBreathing()
			manual.Advance(2 * time.Minute)

			Expect(completions).To(HaveLen(1))
			session := guardian.Breathing().Snapshot()
			Expect(session.Completed).To(BeTrue())
			Expect(session.Active).To(BeFalse())
			Expect(session.CycleIndex).To(BeNumerically("<=", session.TotalCycles))
			Expect(manual.Pending()).To(BeZero())
		})

		It("should stop breathing when the user returns to the disguise", func() {
			guardian.StartBreathing()
			manual.Advance(10 * time.Second)

			guardian.ResolveEmergency()

			Expect(guardian.Breathing().Snapshot().Active).To(BeFalse())
			manual.Advance(2 * time.Minute)
			Expect(completions).To(BeEmpty())
		})
	})
})
