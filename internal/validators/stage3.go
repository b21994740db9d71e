package validators

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
)

var (
	envAssignPattern    = regexp.MustCompile(`(?m)^\s*([A-Za-z_][A-Za-z0-9_]*)\s*=`)
	lineCommentPattern  = regexp.MustCompile(`(?m)//[^\n]*`)
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
	trailingCommaFix    = regexp.MustCompile(`,\s*([}\]])`)
)

// formattingFunctions are the utility exports the formatting module must
// provide.
var formattingFunctions = []string{
	"formatDate", "formatDateTime", "formatCurrency", "formatNumber", "truncate", "capitalize",
}

// storageMethods are the accessors the storage utility must expose.
var storageMethods = []string{"get", "set", "remove", "clear"}

// envExemptVars are non-VITE variables conventionally present in .env files.
var envExemptVars = map[string]struct{}{"NODE_ENV": {}, "PORT": {}}

// Stage3 validates the infrastructure stage: the shared API client, utility
// modules, custom hooks, and the build configuration around them.
type Stage3 struct{}

// Descriptor implements Validator.
func (*Stage3) Descriptor() Descriptor {
	return Descriptor{
		Stage:       3,
		Name:        "infrastructure",
		Description: "api client, utilities, hooks, and build config",
	}
}

// Validate implements Validator.
func (v *Stage3) Validate(_ context.Context, in *Inputs) Outcome {
	var c collector

	v.checkAPIClient(&c, in)
	v.checkFormatting(&c, in)
	v.checkStorage(&c, in)
	v.checkHooks(&c, in)
	v.checkEnv(&c, in)
	v.checkViteConfig(&c, in)
	v.checkTSConfig(&c, in)
	v.checkBarrels(&c, in)

	c.check()
	checkModuleHygiene(&c, in, "src/")

	c.check()
	c.merge(runEngine(in))

	return c.outcome()
}

func (*Stage3) checkAPIClient(c *collector, in *Inputs) {
	c.check()

	const rel = "src/services/api.ts"

	text, ok := c.requireFile(in, rel)
	if !ok {
		return
	}

	required := []struct {
		needle string
		detail string
	}{
		{"axios", "axios is not imported"},
		{"axios.create", "client is not created with axios.create"},
		{"baseURL", "client declares no baseURL"},
		{"interceptors.request.use", "no request interceptor installed"},
		{"interceptors.response.use", "no response interceptor installed"},
		{"export default", "client instance is not the default export"},
	}

	for _, req := range required {
		if !strings.Contains(text, req.needle) {
			c.errorf(KindMissingPattern, rel, "%s", req.detail)
		}
	}

	if !strings.Contains(text, "VITE_API_BASE_URL") {
		c.warnf(KindMissingPattern, rel, "baseURL is not driven by VITE_API_BASE_URL")
	}
}

func (*Stage3) checkFormatting(c *collector, in *Inputs) {
	c.check()

	const rel = "src/utils/formatting.ts"

	text, ok := c.requireFile(in, rel)
	if !ok {
		return
	}

	for _, fn := range formattingFunctions {
		if !regexp.MustCompile(`export\s+(const|function)\s+` + fn + `\b`).MatchString(text) {
			c.errorf(KindMissingPattern, rel, "missing exported function %s", fn)
		}
	}
}

func (*Stage3) checkStorage(c *collector, in *Inputs) {
	c.check()

	const rel = "src/utils/storage.ts"

	text, ok := c.requireFile(in, rel)
	if !ok {
		return
	}

	if !regexp.MustCompile(`export\s+const\s+(storage|storageUtil)\s*=`).MatchString(text) {
		c.errorf(KindMissingPattern, rel, "missing exported storage object")
	}

	for _, method := range storageMethods {
		if !regexp.MustCompile(`\b` + method + `\s*[:(=<]`).MatchString(text) {
			c.errorf(KindMissingPattern, rel, "storage object lacks a %s accessor", method)
		}
	}

	if !strings.Contains(text, "<T>") {
		c.warnf(KindMissingPattern, rel, "storage accessors are not generic over the stored type")
	}
}

func (*Stage3) checkHooks(c *collector, in *Inputs) {
	for _, hook := range []string{"useApi", "usePagination"} {
		c.check()

		rel := "src/hooks/" + hook + ".ts"

		text, ok := c.requireFile(in, rel)
		if !ok {
			continue
		}

		exported := regexp.MustCompile(`export\s+(const|function)\s+`+hook+`\b`).MatchString(text) ||
			regexp.MustCompile(`export\s+default\s+`+hook+`\b`).MatchString(text)
		if !exported {
			c.errorf(KindMissingPattern, rel, "hook %s is not exported", hook)
		}

		if !regexp.MustCompile(`from\s+['"]react['"]`).MatchString(text) {
			c.errorf(KindMissingPattern, rel, "hook does not import from react")
		}
	}
}

func (*Stage3) checkEnv(c *collector, in *Inputs) {
	c.check()

	const rel = ".env"

	text, ok := c.requireFile(in, rel)
	if !ok {
		return
	}

	if !strings.Contains(text, "VITE_API_BASE_URL") {
		c.errorf(KindMissingPattern, rel, "VITE_API_BASE_URL is not set")
	}

	for _, match := range envAssignPattern.FindAllStringSubmatch(text, -1) {
		name := match[1]
		if strings.HasPrefix(name, "VITE_") {
			continue
		}

		if _, exempt := envExemptVars[name]; exempt {
			continue
		}

		c.warnf(KindStyleViolation, rel,
			"%s lacks the VITE_ prefix and will not reach client code", name)
	}
}

func (*Stage3) checkViteConfig(c *collector, in *Inputs) {
	c.check()

	const rel = "vite.config.ts"

	text, ok := c.requireFile(in, rel)
	if !ok {
		return
	}

	if !regexp.MustCompile(`import\s*\{[^}]*defineConfig[^}]*\}\s*from\s*['"]vite['"]`).MatchString(text) {
		c.errorf(KindMissingPattern, rel, "defineConfig is not imported from vite")
	}

	if !regexp.MustCompile(`from\s+['"]@vitejs/plugin-react['"]`).MatchString(text) {
		c.errorf(KindMissingPattern, rel, "the react plugin is not imported from @vitejs/plugin-react")
	}

	if !strings.Contains(text, "proxy") {
		c.warnf(KindMissingPattern, rel, "no dev-server proxy configured")
	} else if !strings.Contains(text, `"/api"`) && !strings.Contains(text, `'/api'`) {
		c.warnf(KindMissingPattern, rel, "proxy does not forward /api")
	}
}

func (*Stage3) checkTSConfig(c *collector, in *Inputs) {
	c.check()

	const rel = "tsconfig.json"

	text, ok := c.requireFile(in, rel)
	if !ok {
		return
	}

	var parsed struct {
		CompilerOptions struct {
			JSX              string `json:"jsx"`
			Strict           *bool  `json:"strict"`
			ModuleResolution string `json:"moduleResolution"`
		} `json:"compilerOptions"`
	}

	err := json.Unmarshal([]byte(relaxJSON(text)), &parsed)
	if err != nil {
		c.errorf(KindInvalidDocument, rel, "not parseable as JSON: %v", err)

		return
	}

	opts := parsed.CompilerOptions

	if opts.JSX != "react" && opts.JSX != "react-jsx" {
		c.errorf(KindInvalidDocument, rel, "compilerOptions.jsx must be react or react-jsx, got %q", opts.JSX)
	}

	if opts.Strict == nil || !*opts.Strict {
		c.warnf(KindInvalidDocument, rel, "strict mode is not enabled")
	}

	if opts.ModuleResolution == "" {
		c.warnf(KindInvalidDocument, rel, "moduleResolution is not set")
	}
}

func (*Stage3) checkBarrels(c *collector, in *Inputs) {
	barrels := []struct {
		rel     string
		entries []string
	}{
		{"src/utils/index.ts", []string{"./formatting", "./storage"}},
		{"src/hooks/index.ts", []string{"useApi", "usePagination"}},
	}

	for _, barrel := range barrels {
		c.check()

		text, ok := c.requireFile(in, barrel.rel)
		if !ok {
			continue
		}

		for _, entry := range barrel.entries {
			if !strings.Contains(text, entry) {
				c.errorf(KindMissingPattern, barrel.rel, "barrel does not re-export %q", entry)
			}
		}
	}
}

// relaxJSON strips the comments and trailing commas tsconfig files carry so
// the standard decoder can parse them.
func relaxJSON(text string) string {
	out := blockCommentPattern.ReplaceAllString(text, "")
	out = lineCommentPattern.ReplaceAllString(out, "")

	return trailingCommaFix.ReplaceAllString(out, "$1")
}
