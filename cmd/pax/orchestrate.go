package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/forgekit/pkgcore/appview"
	"github.com/forgekit/pkgcore/installer"
	"github.com/forgekit/pkgcore/internal/metrics"
	"github.com/forgekit/pkgcore/internal/pkglog"
	"github.com/forgekit/pkgcore/planner"
	"github.com/forgekit/pkgcore/resolver"
	"github.com/forgekit/pkgcore/supplier"
)

func buildSupplier(cfg Config) supplier.Supplier {
	switch {
	case cfg.Registry != "":
		return supplier.NewHTTP(cfg.Registry, nil)
	case len(cfg.VCSRemotes) > 0:
		return supplier.NewVCS(cfg.VCSRemotes, filepath.Join(os.TempDir(), "pkgcore-vcs-cache"))
	case cfg.LocalCatalog != "":
		return supplier.NewLocal(cfg.LocalCatalog)
	default:
		return supplier.NewLocal(filepath.Join(".", ".pkgcore-catalog"))
	}
}

func maybeServeMetrics(port int, log *pkglog.Logger) {
	if port == 0 {
		return
	}
	go func() {
		addr := fmt.Sprintf(":%d", port)
		log.Logf("serving metrics on %s/metrics\n", addr)
		if err := http.ListenAndServe(addr, promhttp.Handler()); err != nil {
			log.Warnf("metrics server stopped: %v", err)
		}
	}()
}

// runPlan re-materializes root, resolves its dependency graph against
// sup, and returns the planned action list alongside the state it was
// planned from.
func runPlan(root string, sup supplier.Supplier, log *pkglog.Logger) (*appview.State, []planner.Action, error) {
	state, err := appview.Reinit(root, log)
	if err != nil {
		return nil, nil, err
	}

	res := resolver.Resolve(state.Main, sup, log)
	metrics.RecordResolve(res.Iterations, res.GatherFailed)

	actions := planner.Plan(res.Graph, state, res.GatherFailed)
	for _, a := range actions {
		metrics.RecordPlanAction(a.Kind.String())
	}

	return state, actions, nil
}

// applyActions executes a planned action list against root, in order,
// stopping at the first fatal action-execution error. completed reports
// how many actions ran to completion before that error, so a caller can
// tell the difference between "nothing happened" and "got partway
// through" (spec's plan-execution propagation policy).
func applyActions(root string, actions []planner.Action, sup supplier.Supplier, log *pkglog.Logger) (completed int, err error) {
	for _, a := range actions {
		switch a.Kind {
		case planner.Failure:
			return completed, fmt.Errorf("resolution stalled on %s (constraint %s from %v)", a.Name, a.Constraint, a.Issuers)
		case planner.Conflict:
			return completed, fmt.Errorf("conflicting constraints for %s: %v", a.Name, a.Issuers)
		case planner.Uninstall:
			start := time.Now()
			_, err := installer.Uninstall(filepath.Join(root, appview.ModulesDir, a.Name), a.Name, log)
			metrics.RecordUninstall(time.Since(start).Seconds(), err)
			if err != nil {
				return completed, err
			}
		case planner.InstallUpdate:
			start := time.Now()
			res, err := installer.Install(root, a.Name, a.Constraint, sup, nil, log)
			metrics.RecordInstall(time.Since(start).Seconds(), err)
			if err != nil {
				return completed, err
			}
			metrics.RecordBytesWritten(res.BytesWritten)
		}
		completed++
	}
	return completed, nil
}
