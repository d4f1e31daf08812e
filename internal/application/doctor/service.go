// Package doctor runs environment diagnostics.
package doctor

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/paceline/paceline/internal/domain"
	"github.com/paceline/paceline/internal/infrastructure/cache"
	"github.com/paceline/paceline/internal/infrastructure/store"
	"github.com/paceline/paceline/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Store          *store.SQLiteStore
	Cache          *cache.FileCache
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("version %s, %d segments", cfg.ConfigFormatVersion, len(cfg.Segments))))

	if s.Store != nil {
		if s.Store.Available() {
			checks = append(checks, ok("Snapshot store", s.Store.Path()))
		} else {
			checks = append(checks, warn("Snapshot store", fmt.Sprintf("%s unavailable; telemetry disabled", s.Store.Path())))
		}
	}

	if s.Cache != nil {
		entries, _ := s.Cache.Entries()
		checks = append(checks, ok("Usage cache", fmt.Sprintf("%s (%d entries)", s.Cache.Dir(), len(entries))))
	}

	for _, pc := range cfg.Usage.Providers {
		if len(pc.Command) == 0 {
			checks = append(checks, warn("Provider "+pc.ID, "no command configured"))
			continue
		}
		if _, err := exec.LookPath(pc.Command[0]); err != nil {
			checks = append(checks, warn("Provider "+pc.ID, fmt.Sprintf("%s not found on PATH", pc.Command[0])))
		} else {
			checks = append(checks, ok("Provider "+pc.ID, pc.Command[0]))
		}
	}

	for _, tool := range []string{"git", "gh"} {
		if _, err := exec.LookPath(tool); err != nil {
			checks = append(checks, warn("Tool "+tool, "not found on PATH"))
		} else {
			checks = append(checks, ok("Tool "+tool, "available"))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthFail, Details: details}
}
