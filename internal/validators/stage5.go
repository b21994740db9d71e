package validators

import (
	"context"
	"regexp"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	appDefinitionPattern    = regexp.MustCompile(`(const|function)\s+App\b`)
	appInlineDefaultPattern = regexp.MustCompile(`export\s+default\s+function\s+App\b`)
	appNamedExportPattern   = regexp.MustCompile(`export\s+(const|function)\s+App\b`)
	appDefaultRefPattern    = regexp.MustCompile(`export\s+default\s+App\b`)
	rootElementPattern      = regexp.MustCompile(`getElementById\(\s*['"]root['"]\s*\)`)
	doctypePattern          = regexp.MustCompile(`(?i)<!DOCTYPE\s+html`)
	charsetPattern          = regexp.MustCompile(`(?i)charset=["']?utf-8`)
	apiCallPattern          = regexp.MustCompile("\\bapi\\.(get|post|put|patch|delete)\\(\\s*['\"`](/[^'\"` ]*)['\"`]")
	axiosDirectPattern      = regexp.MustCompile(`\baxios\.(get|post|put|patch|delete)\(`)
	hardcodedURLPattern     = regexp.MustCompile("['\"`]https?://[^'\"`]+['\"`]")
	templateParamPattern    = regexp.MustCompile(`\$\{(\w+)\}`)
)

// requiredDependencies and requiredDevDependencies are the manifest entries
// a generated Vite/React project cannot run without.
var (
	requiredDependencies    = []string{"react", "react-dom", "react-router-dom", "axios"}
	requiredDevDependencies = []string{"@types/react", "@types/react-dom", "@vitejs/plugin-react", "typescript", "vite"}
	requiredScripts         = []string{"dev", "build"}
)

// appCSSSelectors are the style hooks the shell stylesheet must define.
var appCSSSelectors = []string{".app", ".layout", ".navbar", "button"}

// Stage5 validates the application shell: entry point, App component, global
// styles, auth context, HTML template, the manifest, endpoint agreement with
// the backend contract, and drift against the recorded baseline. It finishes
// with the hardened engine pass including the dependency cross-check.
type Stage5 struct{}

// Descriptor implements Validator.
func (*Stage5) Descriptor() Descriptor {
	return Descriptor{
		Stage:       5,
		Name:        "application-shell",
		Description: "entry point, shell wiring, manifest, and full engine pass",
	}
}

// Validate implements Validator.
func (v *Stage5) Validate(_ context.Context, in *Inputs) Outcome {
	var c collector

	appDefault := v.checkApp(&c, in)
	v.checkMainEntry(&c, in, appDefault)
	v.checkStylesheets(&c, in)
	v.checkAuthContext(&c, in)
	v.checkHTMLTemplate(&c, in)
	v.checkManifest(&c, in)
	v.checkBackendEndpoints(&c, in)
	v.checkRouteViewMatching(&c, in)
	v.checkBaseline(&c, in)

	c.check()
	c.merge(runEngineWithDependencies(in))

	return c.outcome()
}

// checkApp validates App.tsx and reports whether App is default-exported,
// which the entry-point check cross-references.
func (*Stage5) checkApp(c *collector, in *Inputs) bool {
	c.check()

	const rel = "src/App.tsx"

	text, ok := c.requireFile(in, rel)
	if !ok {
		return true
	}

	if !reactImportPattern.MatchString(text) {
		c.errorf(KindMissingPattern, rel, "react is not imported")
	}

	inlineDefault := appInlineDefaultPattern.MatchString(text)
	defaultRef := appDefaultRefPattern.MatchString(text)
	named := appNamedExportPattern.MatchString(text)

	if inlineDefault && appDefinitionPattern.MatchString(text) && defaultRef {
		c.errorf(KindStyleViolation, rel, "App is both defined separately and default-exported inline")
	}

	if !inlineDefault && !defaultRef && !named {
		c.errorf(KindMissingPattern, rel, "App component is not exported")
	}

	if !regexp.MustCompile(`import[^\n]*AppRouter[^\n]*from[^\n]*router`).MatchString(text) {
		c.errorf(KindMissingPattern, rel, "AppRouter is not imported from the router")
	}

	if !regexp.MustCompile(`<AppRouter\s*/?>`).MatchString(text) {
		c.errorf(KindMissingPattern, rel, "App does not render <AppRouter />")
	}

	if !strings.Contains(text, "./App.css") {
		c.errorf(KindMissingPattern, rel, "App.css is not imported")
	}

	if in.AuthEnabled() {
		if !strings.Contains(text, "AuthProvider") {
			c.errorf(KindMissingPattern, rel, "authentication is enabled but AuthProvider is not used")
		} else if !strings.Contains(text, "<AuthProvider>") {
			c.errorf(KindMissingPattern, rel, "AuthProvider is imported but the tree is not wrapped in it")
		}
	}

	return inlineDefault || defaultRef
}

func (*Stage5) checkMainEntry(c *collector, in *Inputs, appDefault bool) {
	c.check()

	const rel = "src/main.tsx"

	text, ok := c.requireFile(in, rel)
	if !ok {
		return
	}

	if !reactImportPattern.MatchString(text) {
		c.errorf(KindMissingPattern, rel, "react is not imported")
	}

	if !regexp.MustCompile(`from\s+['"]react-dom/client['"]`).MatchString(text) {
		c.errorf(KindMissingPattern, rel, "ReactDOM is not imported from react-dom/client")
	}

	defaultImport := regexp.MustCompile(`import\s+App\s+from`).MatchString(text)
	namedImport := regexp.MustCompile(`import\s*\{[^}]*\bApp\b[^}]*\}\s*from`).MatchString(text)

	switch {
	case !defaultImport && !namedImport:
		c.errorf(KindMissingPattern, rel, "App is not imported")
	case appDefault && namedImport && !defaultImport:
		c.errorf(KindStyleViolation, rel, "App is default-exported but imported as a named symbol")
	case !appDefault && defaultImport:
		c.errorf(KindStyleViolation, rel, "App is a named export but imported as default")
	}

	if !strings.Contains(text, "./index.css") {
		c.errorf(KindMissingPattern, rel, "index.css is not imported")
	}

	if !strings.Contains(text, "createRoot") {
		c.errorf(KindMissingPattern, rel, "entry does not use ReactDOM.createRoot")
	}

	if !rootElementPattern.MatchString(text) {
		c.errorf(KindMissingPattern, rel, "entry does not mount on the root element")
	}

	if !strings.Contains(text, "StrictMode") {
		c.warnf(KindMissingPattern, rel, "tree is not wrapped in StrictMode")
	}
}

func (*Stage5) checkStylesheets(c *collector, in *Inputs) {
	c.check()

	if text, ok := c.requireFile(in, "src/App.css"); ok {
		for _, selector := range appCSSSelectors {
			if !regexp.MustCompile(regexp.QuoteMeta(selector) + `\s*\{`).MatchString(text) {
				c.errorf(KindMissingPattern, "src/App.css", "missing %s rule", selector)
			}
		}
	}

	c.check()

	if text, ok := c.requireFile(in, "src/index.css"); ok {
		if !strings.Contains(text, "box-sizing: border-box") {
			c.errorf(KindMissingPattern, "src/index.css", "missing box-sizing: border-box reset")
		}

		if !regexp.MustCompile(`body\s*\{`).MatchString(text) {
			c.errorf(KindMissingPattern, "src/index.css", "missing body rule")
		}

		if !strings.Contains(text, ":root") && !regexp.MustCompile(`\bhtml\s*[{,]`).MatchString(text) {
			c.warnf(KindMissingPattern, "src/index.css", "no :root or html base rule")
		}
	}
}

func (*Stage5) checkAuthContext(c *collector, in *Inputs) {
	if !in.AuthEnabled() {
		return
	}

	c.check()

	const rel = "src/context/AuthContext.tsx"

	text, ok := c.requireFile(in, rel)
	if !ok {
		return
	}

	for _, hook := range []string{"createContext", "useContext"} {
		if !strings.Contains(text, hook) {
			c.errorf(KindMissingPattern, rel, "%s is not used", hook)
		}
	}

	if !regexp.MustCompile(`const\s+AuthContext\s*=\s*createContext`).MatchString(text) {
		c.errorf(KindMissingPattern, rel, "AuthContext is not created with createContext")
	}

	for _, name := range []string{"AuthProvider", "useAuth"} {
		if !regexp.MustCompile(`export\s+(const|function)\s+` + name + `\b`).MatchString(text) {
			c.errorf(KindMissingPattern, rel, "%s is not exported", name)
		}
	}

	for _, method := range []string{"login", "logout"} {
		if !regexp.MustCompile(`\b` + method + `\s*[:=(]`).MatchString(text) {
			c.errorf(KindMissingPattern, rel, "auth context provides no %s method", method)
		}
	}

	c.check()

	if text, ok := c.requireFile(in, "src/context/index.ts"); ok {
		if !strings.Contains(text, "./AuthContext") {
			c.errorf(KindMissingPattern, "src/context/index.ts", "barrel does not re-export the auth context")
		}
	}
}

func (*Stage5) checkHTMLTemplate(c *collector, in *Inputs) {
	c.check()

	const rel = "index.html"

	text, ok := in.ReadFile(rel)
	if !ok {
		c.errorf(KindMissingFile, rel, "index.html must live in the project root")

		return
	}

	if !doctypePattern.MatchString(text) {
		c.errorf(KindMissingPattern, rel, "missing html doctype")
	}

	if !charsetPattern.MatchString(text) {
		c.errorf(KindMissingPattern, rel, "missing UTF-8 charset declaration")
	}

	if !strings.Contains(text, "viewport") {
		c.warnf(KindMissingPattern, rel, "missing viewport meta tag")
	}

	if !strings.Contains(text, `<div id="root"`) {
		c.errorf(KindMissingPattern, rel, "missing root mount element")
	}

	if !strings.Contains(text, "/src/main.tsx") {
		c.errorf(KindMissingPattern, rel, "entry script does not load /src/main.tsx")
	}
}

func (*Stage5) checkManifest(c *collector, in *Inputs) {
	c.check()

	const rel = "package.json"

	if in.Manifest == nil {
		c.errorf(KindMissingInput, rel, "dependency manifest could not be loaded")

		return
	}

	for _, dep := range requiredDependencies {
		if _, ok := in.Manifest.Dependencies[dep]; !ok {
			c.errorf(KindManifestViolation, rel, "missing runtime dependency %q", dep)
		}
	}

	for _, dep := range requiredDevDependencies {
		if _, ok := in.Manifest.DevDependencies[dep]; !ok {
			c.errorf(KindManifestViolation, rel, "missing development dependency %q", dep)
		}
	}

	for _, script := range requiredScripts {
		if !in.Manifest.HasScript(script) {
			c.errorf(KindManifestViolation, rel, "missing script %q", script)
		}
	}
}

// checkBackendEndpoints verifies every endpoint the services call exists in
// the backend contract, and that calls go through the shared client.
func (*Stage5) checkBackendEndpoints(c *collector, in *Inputs) {
	if in.OpenAPI == nil {
		return
	}

	c.check()

	for _, mod := range in.ModulesUnder("src/services/") {
		if !strings.HasSuffix(mod.Rel, ".service.ts") {
			continue
		}

		if !strings.Contains(mod.Text, "./api") && !strings.Contains(mod.Text, "../config/api") {
			c.errorf(KindMissingPattern, mod.Rel, "service does not import the shared api client")

			continue
		}

		if axiosDirectPattern.MatchString(mod.Text) {
			c.errorf(KindStyleViolation, mod.Rel,
				"calls axios directly, bypassing the configured baseURL")
		}

		if hardcodedURLPattern.MatchString(mod.Text) {
			c.errorf(KindStyleViolation, mod.Rel, "contains a hardcoded absolute URL")
		}

		calls := apiCallPattern.FindAllStringSubmatch(mod.Text, -1)
		if len(calls) == 0 {
			c.warnf(KindMissingPattern, mod.Rel, "imports the api client but performs no calls")

			continue
		}

		seen := make(map[string]struct{})

		for _, call := range calls {
			endpoint := templateParamPattern.ReplaceAllString(strings.TrimSuffix(call[2], "/"), "{$1}")
			if _, dup := seen[endpoint]; dup {
				continue
			}

			seen[endpoint] = struct{}{}

			if !in.OpenAPI.HasPath(endpoint) {
				c.errorf(KindRouteMismatch, mod.Rel,
					"endpoint %q does not exist in the backend contract", endpoint)
			}
		}
	}
}

// checkRouteViewMatching verifies every entity view is routed: a constant in
// the route table, an import in the router, and a Route rendering it.
func (*Stage5) checkRouteViewMatching(c *collector, in *Inputs) {
	views := discoverViews(in)
	if len(views) == 0 {
		return
	}

	c.check()

	routes, routesOK := in.ReadFile("src/router/routes.ts")
	router, routerOK := in.ReadFile("src/router/index.tsx")

	if !routesOK || !routerOK {
		// Stage 4 reports the missing router files; nothing to match here.
		return
	}

	for _, view := range views {
		snake := upperSnake(strings.TrimSuffix(view, "View"))

		if !regexp.MustCompile(`\b` + snake + `(_[A-Z_]+)?\s*:`).MatchString(routes) {
			c.errorf(KindRouteMismatch, "src/router/routes.ts",
				"view %s has no %s* route constant", view, snake)
		}

		if !regexp.MustCompile(`import[^\n]*\b` + view + `\b[^\n]*from[^\n]*views`).MatchString(router) {
			c.errorf(KindRouteMismatch, "src/router/index.tsx",
				"view %s is not imported from the views barrel", view)
		}

		if !regexp.MustCompile(`<Route[^\n]*element=\{<` + view + `\b`).MatchString(router) {
			c.errorf(KindRouteMismatch, "src/router/index.tsx",
				"view %s is not rendered by any Route", view)
		}
	}
}

// checkBaseline compares the previous-stage files against the recorded
// baseline, or records a fresh one when an update was requested.
func (*Stage5) checkBaseline(c *collector, in *Inputs) {
	c.check()

	if in.UpdateBaseline {
		baseline := CaptureBaseline(in)

		err := SaveBaseline(in.BaselineDir, in.BaselineCodec, baseline)
		if err != nil {
			c.warnf(KindBaselineDrift, "baseline", "could not record baseline: %v", err)
		} else if in.Logger != nil {
			in.Logger.Info("baseline recorded",
				"dir", in.BaselineDir, "files", len(baseline.Files))
		}

		return
	}

	if in.Baseline == nil {
		// No baseline recorded yet; fall back to existence checks on the
		// files previous stages must have produced.
		for _, rel := range baselineFiles {
			if !in.FileExists(rel) {
				c.errorf(KindBaselineDrift, rel, "previous-stage file is missing or was moved")
			}
		}

		return
	}

	dmp := diffmatchpatch.New()

	for _, rel := range baselineFiles {
		recorded, tracked := in.Baseline.Files[rel]
		if !tracked {
			continue
		}

		current, ok := in.ReadFile(rel)
		if !ok {
			c.errorf(KindBaselineDrift, rel, "previous-stage file was deleted after its baseline was recorded")

			continue
		}

		if current == recorded {
			continue
		}

		patches := dmp.PatchMake(recorded, current)
		c.errorf(KindBaselineDrift, rel,
			"previous-stage file was modified:\n%s", strings.TrimSpace(dmp.PatchToText(patches)))
	}

	// Files that appeared under tracked paths since the baseline still get
	// the plain existence check.
	for _, rel := range baselineFiles {
		if _, tracked := in.Baseline.Files[rel]; !tracked && !in.FileExists(rel) {
			c.errorf(KindBaselineDrift, rel, "previous-stage file is missing or was moved")
		}
	}
}
