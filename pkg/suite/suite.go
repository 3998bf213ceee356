// Package suite holds the registered test cases that every device run
// executes. Cases register themselves in package init; the runner asks the
// registry for the full list or a single named case.
package suite

import (
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Case is a single registered test. Run drives the app through the page
// objects and returns nil on pass. Assertion failures are reported as
// core.ExecutionError values with the assertion category; anything else
// counts as an infrastructure error.
type Case struct {
	Name string
	Tags []string
	Run  func(*Session) error
}

var (
	registryMu sync.Mutex
	registry   = map[string]Case{}
)

// Register adds a case to the registry. It panics on duplicate names so a
// bad registration fails at startup, not mid-run.
func Register(c Case) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if c.Name == "" {
		panic("suite: case with empty name")
	}
	if c.Run == nil {
		panic(fmt.Sprintf("suite: case %s has no run function", c.Name))
	}
	if _, ok := registry[c.Name]; ok {
		panic(fmt.Sprintf("suite: duplicate case %s", c.Name))
	}
	registry[c.Name] = c
}

// All returns every registered case, sorted by name.
func All() []Case {
	registryMu.Lock()
	defer registryMu.Unlock()

	cases := lo.Values(registry)
	sort.Slice(cases, func(i, j int) bool { return cases[i].Name < cases[j].Name })
	return cases
}

// Lookup returns the case with the given name.
func Lookup(name string) (Case, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()

	c, ok := registry[name]
	return c, ok
}

// Names returns the sorted names of all registered cases.
func Names() []string {
	return lo.Map(All(), func(c Case, _ int) string { return c.Name })
}
