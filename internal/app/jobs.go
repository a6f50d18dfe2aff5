package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithParser(cronParser), cron.WithLocation(loc))

	if a.otpService != nil {
		_, err := a.sched.AddFunc("@every 1m", func() {
			if n := a.otpService.Sweep(); n > 0 {
				zap.S().Debugf("otp sweep removed %d expired grants", n)
			}
		})
		if err != nil {
			zap.S().Errorf("failed to register otp sweep job: %v", err)
		}
	}

	a.sched.Start()
}
