package planner

import (
	"testing"

	"github.com/forgekit/pkgcore/appview"
	"github.com/forgekit/pkgcore/descriptor"
	"github.com/forgekit/pkgcore/graph"
	"github.com/forgekit/pkgcore/version"
)

func desc(name, ver string, deps map[string]string) *descriptor.Package {
	p := &descriptor.Package{Name: name, Version: version.MustNew(ver)}
	if len(deps) > 0 {
		p.Dependencies = map[string]version.Constraint{}
		for depName, c := range deps {
			con, err := version.Parse(c)
			if err != nil {
				panic(err)
			}
			p.Dependencies[depName] = con
		}
	}
	return p
}

func TestPlanFailureWhenGatherFailed(t *testing.T) {
	g := graph.New("app")
	g.Insert(desc("app", "1.0.0", map[string]string{"gadget": ">=1.0.0"}))
	state := &appview.State{Main: desc("app", "1.0.0", nil), Installed: map[string]*descriptor.Package{}}

	actions := Plan(g, state, true)
	if len(actions) != 1 || actions[0].Kind != Failure || actions[0].Name != "gadget" {
		t.Fatalf("expected a single Failure action for gadget, got %+v", actions)
	}
}

func TestPlanConflictTakesPriorityOverInstalls(t *testing.T) {
	g := graph.New("app")
	g.Insert(desc("app", "1.0.0", map[string]string{"gadget": ">=2.0.0", "lib": ">=1.0.0"}))
	g.Insert(desc("lib", "1.0.0", map[string]string{"gadget": "<1.0.0"}))
	state := &appview.State{Main: desc("app", "1.0.0", nil), Installed: map[string]*descriptor.Package{}}

	actions := Plan(g, state, false)
	if len(actions) == 0 {
		t.Fatal("expected Conflict actions")
	}
	for _, a := range actions {
		if a.Kind != Conflict {
			t.Errorf("expected all actions to be Conflict, got %v", a.Kind)
		}
	}
}

func TestPlanOrdersUninstallsBeforeInstalls(t *testing.T) {
	g := graph.New("app")
	g.Insert(desc("app", "1.0.0", map[string]string{"gadget": ">=1.0.0"}))
	g.Insert(desc("gadget", "1.0.0", nil))

	state := &appview.State{
		Main: desc("app", "1.0.0", nil),
		Installed: map[string]*descriptor.Package{
			"stale": desc("stale", "1.0.0", nil),
		},
	}

	actions := Plan(g, state, false)
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %+v", actions)
	}
	if actions[0].Kind != Uninstall || actions[0].Name != "stale" {
		t.Errorf("first action should uninstall stale, got %+v", actions[0])
	}
	if actions[1].Kind != InstallUpdate || actions[1].Name != "gadget" {
		t.Errorf("second action should install gadget, got %+v", actions[1])
	}
}

func TestPlanReinstallsVersionMismatch(t *testing.T) {
	g := graph.New("app")
	g.Insert(desc("app", "1.0.0", map[string]string{"gadget": ">=2.0.0"}))
	g.Insert(desc("gadget", "2.0.0", nil))

	state := &appview.State{
		Main: desc("app", "1.0.0", nil),
		Installed: map[string]*descriptor.Package{
			"gadget": desc("gadget", "1.0.0", nil),
		},
	}

	actions := Plan(g, state, false)
	if len(actions) != 2 {
		t.Fatalf("expected an Uninstall then an InstallUpdate for gadget, got %+v", actions)
	}
	if actions[0].Kind != Uninstall || actions[0].Name != "gadget" {
		t.Errorf("first action should uninstall the stale gadget, got %+v", actions[0])
	}
	if actions[1].Kind != InstallUpdate || actions[1].Name != "gadget" {
		t.Errorf("second action should install gadget, got %+v", actions[1])
	}
}

func TestPlanSkipsUpToDatePackages(t *testing.T) {
	g := graph.New("app")
	g.Insert(desc("app", "1.0.0", map[string]string{"gadget": ">=1.0.0"}))
	g.Insert(desc("gadget", "1.0.0", nil))

	state := &appview.State{
		Main: desc("app", "1.0.0", nil),
		Installed: map[string]*descriptor.Package{
			"gadget": desc("gadget", "1.0.0", nil),
		},
	}

	actions := Plan(g, state, false)
	if len(actions) != 0 {
		t.Fatalf("expected no actions when already satisfied, got %+v", actions)
	}
}

func TestPlanNeverUninstallsRoot(t *testing.T) {
	g := graph.New("app")
	g.Insert(desc("app", "1.0.0", nil))

	state := &appview.State{
		Main: desc("app", "1.0.0", nil),
		Installed: map[string]*descriptor.Package{
			"app": desc("app", "1.0.0", nil),
		},
	}

	actions := Plan(g, state, false)
	for _, a := range actions {
		if a.Name == "app" {
			t.Errorf("root application must never be planned for uninstall, got %+v", a)
		}
	}
}
