package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DraftSweeper descarta borradores abandonados; lo implementa movement.Registry.
type DraftSweeper interface {
	EvictIdle(maxIdle time.Duration) int
	Len() int
}

// Scheduler tareas periódicas del BFF.
type Scheduler struct {
	cron     *cron.Cron
	sweeper  DraftSweeper
	schedule string
	maxIdle  time.Duration
	log      zerolog.Logger
}

// New crea el scheduler. schedule usa la sintaxis estándar de robfig/cron
// (5 campos o descriptores como "@every 1m").
func New(sweeper DraftSweeper, schedule string, maxIdle time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		sweeper:  sweeper,
		schedule: schedule,
		maxIdle:  maxIdle,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// Start registra las tareas y arranca el cron.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.SweepDrafts); err != nil {
		return fmt.Errorf("scheduler: programar limpieza de borradores %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.log.Info().Str("schedule", s.schedule).Dur("max_idle", s.maxIdle).Msg("scheduler iniciado")
	return nil
}

// Stop detiene el cron y espera a que termine la tarea en curso.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler detenido")
}

// SweepDrafts descarta los borradores sin actividad durante maxIdle.
func (s *Scheduler) SweepDrafts() {
	n := s.sweeper.EvictIdle(s.maxIdle)
	if n == 0 {
		return
	}
	s.log.Info().Int("evicted", n).Int("remaining", s.sweeper.Len()).Msg("borradores inactivos descartados")
}
