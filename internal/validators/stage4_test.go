package validators_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stagegate-dev/stagegate/internal/validators"
)

func TestStage4_CompleteRouting(t *testing.T) {
	t.Parallel()

	in := loadInputs(t, fullProject())

	out := (&validators.Stage4{}).Validate(context.Background(), in)

	assert.Empty(t, errorDiags(out))
	assert.Positive(t, out.Checks)
}

func TestStage4_RouteTableMissingConstants(t *testing.T) {
	t.Parallel()

	files := fullProject()
	files["src/router/routes.ts"] = "export const ROUTES = {\n  HOME: '/',\n};\n"

	in := loadInputs(t, files)

	out := (&validators.Stage4{}).Validate(context.Background(), in)
	errs := errorDiags(out)

	var details string
	for _, diag := range errs {
		details += diag.Detail + "\n"
	}

	assert.Contains(t, details, "NOT_FOUND")
	assert.True(t, hasKind(errs, validators.KindRouteMismatch))
}

func TestStage4_SwitchComponentRejected(t *testing.T) {
	t.Parallel()

	files := fullProject()
	files["src/router/index.tsx"] = `import React from 'react';
import { BrowserRouter, Switch, Route } from 'react-router-dom';
import { Layout } from '../components';
import { Home } from '../views';

export const AppRouter = () => (
  <BrowserRouter>
    <Layout>
      <Switch>
        <Route path="/" element={<Home />} />
      </Switch>
    </Layout>
  </BrowserRouter>
);
`

	in := loadInputs(t, files)

	out := (&validators.Stage4{}).Validate(context.Background(), in)

	var details string
	for _, diag := range errorDiags(out) {
		details += diag.Detail + "\n"
	}

	assert.Contains(t, details, "Switch")
	assert.Contains(t, details, "Routes is not imported")
}

func TestStage4_LayoutWithoutNavbar(t *testing.T) {
	t.Parallel()

	files := fullProject()
	files["src/components/Layout.tsx"] = `import React from 'react';

export const Layout = ({ children }: { children: React.ReactNode }) => (
  <div className="layout">
    <main>{children}</main>
  </div>
);
`

	in := loadInputs(t, files)

	out := (&validators.Stage4{}).Validate(context.Background(), in)

	found := false

	for _, diag := range errorDiags(out) {
		if diag.Module == "src/components/Layout.tsx" {
			found = true

			assert.Contains(t, diag.Detail, "Navbar")
		}
	}

	assert.True(t, found)
}

func TestStage4_DuplicateViewStems(t *testing.T) {
	t.Parallel()

	files := fullProject()
	files["src/views/Taskview.tsx"] = files["src/views/TaskView.tsx"]

	in := loadInputs(t, files)

	out := (&validators.Stage4{}).Validate(context.Background(), in)

	assert.True(t, hasKind(errorDiags(out), validators.KindStyleViolation))
}
