package validators

import (
	"context"
	"path"
	"regexp"
	"sort"
	"strings"
)

// sidebarEntityThreshold is the entity count above which the generator emits
// a sidebar in addition to the navbar.
const sidebarEntityThreshold = 3

var (
	reactImportPattern  = regexp.MustCompile(`import\s+(React\b|\{[^}]*\}\s*from\s*['"]react['"])|from\s+['"]react['"]`)
	routerLinkPattern   = regexp.MustCompile(`\{[^}]*\bLink\b[^}]*\}\s*from\s*['"]react-router-dom['"]`)
	linkUsagePattern    = regexp.MustCompile(`<Link\s+to=`)
	routeElementPattern = regexp.MustCompile(`<Route[^>]*path=[^>]*element=`)
)

// Stage4 validates the routing/layout stage: the route table, the router
// shell, and the layout component family.
type Stage4 struct{}

// Descriptor implements Validator.
func (*Stage4) Descriptor() Descriptor {
	return Descriptor{
		Stage:       4,
		Name:        "routing-layout",
		Description: "views, route table, router shell, layout components",
	}
}

// Validate implements Validator.
func (v *Stage4) Validate(_ context.Context, in *Inputs) Outcome {
	var c collector

	views := discoverViews(in)

	v.checkStaticViews(&c, in)
	v.checkRouteTable(&c, in, views)
	v.checkRouterShell(&c, in)
	v.checkLayout(&c, in)
	v.checkNavbar(&c, in)
	v.checkSidebar(&c, in)
	v.checkBarrels(&c, in, views)
	v.checkDuplicateViews(&c, in)

	c.check()
	c.merge(runEngine(in))

	return c.outcome()
}

// discoverViews lists the generated view stems under src/views, excluding
// the two fixed ones.
func discoverViews(in *Inputs) []string {
	var views []string

	for _, mod := range in.ModulesUnder("src/views/") {
		if !strings.HasSuffix(mod.Rel, ".tsx") || strings.Count(mod.Rel, "/") != 2 {
			continue
		}

		stem := strings.TrimSuffix(path.Base(mod.Rel), ".tsx")
		if stem == "Home" || stem == "NotFound" || stem == "index" {
			continue
		}

		views = append(views, stem)
	}

	sort.Strings(views)

	return views
}

func (*Stage4) checkStaticViews(c *collector, in *Inputs) {
	for _, view := range []string{"Home", "NotFound"} {
		c.check()

		rel := "src/views/" + view + ".tsx"

		text, ok := c.requireFile(in, rel)
		if !ok {
			continue
		}

		if !reactImportPattern.MatchString(text) {
			c.errorf(KindMissingPattern, rel, "react is not imported")
		}

		exported := regexp.MustCompile(`export\s+(const|function)\s+`+view+`\b`).MatchString(text) ||
			strings.Contains(text, "export default")
		if !exported {
			c.errorf(KindMissingPattern, rel, "view component %s is not exported", view)
		}

		if view == "NotFound" && !routerLinkPattern.MatchString(text) {
			c.warnf(KindMissingPattern, rel, "no Link back to the home route")
		}
	}
}

func (*Stage4) checkRouteTable(c *collector, in *Inputs, views []string) {
	c.check()

	const rel = "src/router/routes.ts"

	text, ok := c.requireFile(in, rel)
	if !ok {
		return
	}

	if !regexp.MustCompile(`export\s+const\s+ROUTES\b`).MatchString(text) {
		c.errorf(KindMissingPattern, rel, "missing exported ROUTES constant")
	}

	if !regexp.MustCompile(`HOME\s*:\s*['"]/['"]`).MatchString(text) {
		c.errorf(KindMissingPattern, rel, "missing HOME route bound to /")
	}

	if !regexp.MustCompile(`NOT_FOUND\s*:\s*['"]\*`).MatchString(text) {
		c.errorf(KindMissingPattern, rel, "missing NOT_FOUND catch-all route")
	}

	for _, view := range views {
		snake := upperSnake(strings.TrimSuffix(view, "View"))

		constant := regexp.MustCompile(`\b` + snake + `(_[A-Z_]+)?\s*:`)
		if !constant.MatchString(text) {
			c.errorf(KindRouteMismatch, rel, "view %s has no %s* route constant", view, snake)
		}
	}
}

func (*Stage4) checkRouterShell(c *collector, in *Inputs) {
	c.check()

	const rel = "src/router/index.tsx"

	text, ok := c.requireFile(in, rel)
	if !ok {
		return
	}

	if strings.Contains(text, "<Switch") {
		c.errorf(KindStyleViolation, rel, "uses the v5 Switch component; Routes is required")
	}

	imports := regexp.MustCompile(`\{[^}]*\}\s*from\s*['"]react-router-dom['"]`).FindString(text)
	for _, name := range []string{"BrowserRouter", "Routes", "Route"} {
		if !strings.Contains(imports, name) {
			c.errorf(KindMissingPattern, rel, "%s is not imported from react-router-dom", name)
		}
	}

	for _, tag := range []string{"<BrowserRouter>", "<Routes>", "<Layout>"} {
		if !strings.Contains(text, tag) {
			c.errorf(KindMissingPattern, rel, "router shell does not render %s", tag)
		}
	}

	if !routeElementPattern.MatchString(text) {
		c.errorf(KindMissingPattern, rel, "no Route with path and element props")
	}

	if !strings.Contains(text, "ROUTES") {
		c.warnf(KindMissingPattern, rel, "routes are not driven by the ROUTES constants")
	}
}

func (*Stage4) checkLayout(c *collector, in *Inputs) {
	c.check()

	const rel = "src/components/Layout.tsx"

	text, ok := c.requireFile(in, rel)
	if !ok {
		return
	}

	if !reactImportPattern.MatchString(text) {
		c.errorf(KindMissingPattern, rel, "react is not imported")
	}

	if !strings.Contains(text, "export") {
		c.errorf(KindMissingPattern, rel, "layout component is not exported")
	}

	if !regexp.MustCompile(`children[^\n]*React\.ReactNode`).MatchString(text) {
		c.warnf(KindMissingPattern, rel, "children prop is not typed as React.ReactNode")
	}

	if !regexp.MustCompile(`<Navbar\s*/?>`).MatchString(text) {
		c.errorf(KindMissingPattern, rel, "layout does not render the Navbar")
	}
}

func (*Stage4) checkNavbar(c *collector, in *Inputs) {
	c.check()

	const rel = "src/components/Navbar.tsx"

	text, ok := c.requireFile(in, rel)
	if !ok {
		return
	}

	if !strings.Contains(text, "export") {
		c.errorf(KindMissingPattern, rel, "navbar component is not exported")
	}

	if !routerLinkPattern.MatchString(text) {
		c.errorf(KindMissingPattern, rel, "Link is not imported from react-router-dom")
	}

	if !linkUsagePattern.MatchString(text) {
		c.errorf(KindMissingPattern, rel, "navigation renders no <Link to=...> entries")
	}

	if !strings.Contains(text, "ROUTES") {
		c.warnf(KindMissingPattern, rel, "navigation targets are not driven by ROUTES")
	}
}

func (*Stage4) checkSidebar(c *collector, in *Inputs) {
	if in.ERD == nil || len(in.ERD.Entities) <= sidebarEntityThreshold {
		return
	}

	c.check()

	const rel = "src/components/Sidebar.tsx"

	text, ok := c.requireFile(in, rel)
	if !ok {
		return
	}

	if !strings.Contains(text, "export") {
		c.errorf(KindMissingPattern, rel, "sidebar component is not exported")
	}

	if !routerLinkPattern.MatchString(text) {
		c.errorf(KindMissingPattern, rel, "Link is not imported from react-router-dom")
	}

	if !strings.Contains(text, "useLocation") {
		c.warnf(KindMissingPattern, rel, "active entry is not derived from useLocation")
	}
}

func (*Stage4) checkBarrels(c *collector, in *Inputs, views []string) {
	c.check()

	if text, ok := c.requireFile(in, "src/views/index.ts"); ok {
		for _, view := range []string{"Home", "NotFound"} {
			if !strings.Contains(text, view) {
				c.errorf(KindMissingPattern, "src/views/index.ts", "barrel does not export %s", view)
			}
		}

		for _, view := range views {
			if !strings.Contains(text, view) {
				c.warnf(KindMissingPattern, "src/views/index.ts", "barrel does not export %s", view)
			}
		}
	}

	c.check()

	if text, ok := c.requireFile(in, "src/components/index.ts"); ok {
		required := []string{"Layout", "Navbar"}
		if in.ERD != nil && len(in.ERD.Entities) > sidebarEntityThreshold {
			required = append(required, "Sidebar")
		}

		for _, name := range required {
			if !strings.Contains(text, name) {
				c.errorf(KindMissingPattern, "src/components/index.ts", "barrel does not export %s", name)
			}
		}
	}
}

// checkDuplicateViews flags view stems that appear more than once with
// different casing, a frequent generator slip that breaks case-sensitive
// imports.
func (*Stage4) checkDuplicateViews(c *collector, in *Inputs) {
	c.check()

	seen := make(map[string]string)

	for _, mod := range in.ModulesUnder("src/views/") {
		stem := strings.TrimSuffix(path.Base(mod.Rel), path.Ext(mod.Rel))
		key := strings.ToLower(stem)

		if first, dup := seen[key]; dup && first != mod.Rel {
			c.errorf(KindStyleViolation, mod.Rel, "duplicate view stem; collides with %s", first)

			continue
		}

		seen[key] = mod.Rel
	}
}
