package validators_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stagegate-dev/stagegate/internal/config"
	"github.com/stagegate-dev/stagegate/internal/validators"
	"github.com/stagegate-dev/stagegate/pkg/modgraph"
)

const validERD = `{
  "project_info": {"name": "taskman", "total_entities": 1, "entity_complexity": "simple"},
  "entities": [
    {
      "name": "Task",
      "description": "A tracked task",
      "fields": {
        "id": {"type": "integer", "constraints": ["primary_key", "auto_increment"]},
        "title": {"type": "string", "constraints": ["required", "max_length:200"]},
        "createdAt": {"type": "datetime", "constraints": ["required"]},
        "updatedAt": {"type": "datetime", "constraints": ["required"]}
      },
      "operations": ["create", "read", "update", "delete", "list"],
      "relationships": []
    }
  ],
  "relationships": [],
  "frontend_pages": [
    {"name": "Tasks", "description": "Task management", "entities_used": ["Task"], "operations": ["list", "create"]}
  ],
  "business_logic": {
    "authentication": {"enabled": false, "method": "none", "login_fields": [], "password_requirements": {}},
    "authorization": {"role_based": false, "roles": [], "permissions": {}, "resource_permissions": {}}
  }
}`

const validOpenAPI = `{
  "openapi": "3.0.0",
  "paths": {
    "/api/tasks": {"get": {"operationId": "listTasks"}, "post": {"operationId": "createTask"}},
    "/api/tasks/{id}": {"get": {"operationId": "getTask"}, "put": {"operationId": "updateTask"}, "delete": {"operationId": "deleteTask"}}
  }
}`

// fullProject returns a generated tree that satisfies every stage.
func fullProject() map[string]string {
	return map[string]string{
		"erd.json":     validERD,
		"openapi.json": validOpenAPI,

		"index.html": `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>taskman</title>
  </head>
  <body>
    <div id="root"></div>
    <script type="module" src="/src/main.tsx"></script>
  </body>
</html>
`,

		"package.json": `{
  "name": "taskman",
  "version": "0.1.0",
  "dependencies": {
    "react": "^18.2.0",
    "react-dom": "^18.2.0",
    "react-router-dom": "^6.20.0",
    "axios": "^1.6.0"
  },
  "devDependencies": {
    "@types/react": "^18.2.0",
    "@types/react-dom": "^18.2.0",
    "@vitejs/plugin-react": "^4.2.0",
    "typescript": "^5.3.0",
    "vite": "^5.0.0"
  },
  "scripts": {"dev": "vite", "build": "tsc && vite build"}
}
`,

		".env": "VITE_API_BASE_URL=http://localhost:8000\n",

		"vite.config.ts": `import { defineConfig } from 'vite';
import react from '@vitejs/plugin-react';

export default defineConfig({
  plugins: [react()],
  server: {
    proxy: {
      '/api': 'http://localhost:8000',
    },
  },
});
`,

		"tsconfig.json": `{
  "compilerOptions": {
    "jsx": "react-jsx",
    "strict": true,
    "moduleResolution": "bundler"
  }
}
`,

		"src/types/Task.types.ts": `export interface Task {
  id: number;
  title: string;
  createdAt: string;
  updatedAt: string;
}

export interface TaskCreate {
  title: string;
}

export interface TaskUpdate {
  title?: string;
}

export interface TaskResponse {
  data: Task;
}
`,
		"src/types/index.ts": "export * from './Task.types';\n",

		"src/services/api.ts": `import axios from 'axios';

const api = axios.create({
  baseURL: import.meta.env.VITE_API_BASE_URL,
});

api.interceptors.request.use((config) => config);
api.interceptors.response.use((response) => response);

export default api;
`,

		"src/services/task.service.ts": `import api from './api';
import { Task, TaskCreate, TaskUpdate } from '../types/Task.types';

export const taskService = {
  getAll: () => api.get('/api/tasks'),
  getById: (id: number) => api.get('/api/tasks/' + id),
  create: (payload: TaskCreate) => api.post('/api/tasks', payload),
  update: (id: number, payload: TaskUpdate) => api.put('/api/tasks/' + id, payload),
  delete: (id: number) => api.delete('/api/tasks/' + id),
};
`,
		"src/services/index.ts": "export * from './task.service';\n",

		"src/components/TaskList.tsx": `import React from 'react';
import { Task } from '../types/Task.types';

export const TaskList: React.FC<{ tasks: Task[] }> = ({ tasks }) => (
  <ul>
    {tasks.map((task) => (
      <li key={task.id}>{task.title}</li>
    ))}
  </ul>
);
`,

		"src/components/TaskForm.tsx": `import React from 'react';
import { TaskCreate } from '../types/Task.types';

export const TaskForm: React.FC<{ onSubmit: (payload: TaskCreate) => void }> = ({ onSubmit }) => (
  <form onSubmit={() => onSubmit({ title: '' })}>
    <button type="submit">Save</button>
  </form>
);
`,

		"src/components/Layout.tsx": `import React from 'react';
import { Navbar } from './Navbar';

export const Layout = ({ children }: { children: React.ReactNode }) => (
  <div className="layout">
    <Navbar />
    <main>{children}</main>
  </div>
);
`,

		"src/components/Navbar.tsx": `import React from 'react';
import { Link } from 'react-router-dom';
import { ROUTES } from '../router/routes';

export const Navbar = () => (
  <nav className="navbar">
    <Link to={ROUTES.HOME}>Home</Link>
    <Link to={ROUTES.TASK}>Tasks</Link>
  </nav>
);
`,

		"src/components/index.ts": `export * from './Layout';
export * from './Navbar';
export * from './TaskList';
export * from './TaskForm';
`,

		"src/utils/formatting.ts": `export const formatDate = (value: string): string => new Date(value).toLocaleDateString();
export const formatDateTime = (value: string): string => new Date(value).toLocaleString();
export const formatCurrency = (value: number): string => value.toFixed(2);
export const formatNumber = (value: number): string => value.toLocaleString();
export const truncate = (value: string, length: number): string => value.slice(0, length);
export const capitalize = (value: string): string => value.charAt(0).toUpperCase() + value.slice(1);
`,

		"src/utils/storage.ts": `export const storage = {
  get: <T>(key: string): T | null => {
    const raw = window.localStorage.getItem(key);
    return raw ? (JSON.parse(raw) as T) : null;
  },
  set: <T>(key: string, value: T): void => {
    window.localStorage.setItem(key, JSON.stringify(value));
  },
  remove: (key: string): void => window.localStorage.removeItem(key),
  clear: (): void => window.localStorage.clear(),
};
`,
		"src/utils/index.ts": "export * from './formatting';\nexport * from './storage';\n",

		"src/hooks/useApi.ts": `import { useState } from 'react';

export const useApi = () => {
  const [loading, setLoading] = useState(false);
  return { loading, setLoading };
};
`,

		"src/hooks/usePagination.ts": `import { useState } from 'react';

export const usePagination = (pageSize: number) => {
  const [page, setPage] = useState(1);
  return { page, pageSize, setPage };
};
`,
		"src/hooks/index.ts": "export * from './useApi';\nexport * from './usePagination';\n",

		"src/views/Home.tsx": `import React from 'react';

export const Home = () => (
  <section className="app">
    <h1>taskman</h1>
  </section>
);
`,

		"src/views/NotFound.tsx": `import React from 'react';
import { Link } from 'react-router-dom';
import { ROUTES } from '../router/routes';

export const NotFound = () => (
  <section>
    <h1>Not found</h1>
    <Link to={ROUTES.HOME}>Back home</Link>
  </section>
);
`,

		"src/views/TaskView.tsx": `import React from 'react';
import { TaskList } from '../components';
import { useApi } from '../hooks';

export const TaskView = () => {
  const { loading } = useApi();
  return loading ? <p>Loading</p> : <TaskList tasks={[]} />;
};
`,
		"src/views/index.ts": "export * from './Home';\nexport * from './NotFound';\nexport * from './TaskView';\n",

		"src/router/routes.ts": `export const ROUTES = {
  HOME: '/',
  TASK: '/tasks',
  NOT_FOUND: '*',
};
`,

		"src/router/index.tsx": `import React from 'react';
import { BrowserRouter, Routes, Route } from 'react-router-dom';
import { Layout } from '../components';
import { Home, NotFound, TaskView } from '../views';
import { ROUTES } from './routes';

export const AppRouter = () => (
  <BrowserRouter>
    <Layout>
      <Routes>
        <Route path={ROUTES.HOME} element={<Home />} />
        <Route path={ROUTES.TASK} element={<TaskView />} />
        <Route path={ROUTES.NOT_FOUND} element={<NotFound />} />
      </Routes>
    </Layout>
  </BrowserRouter>
);
`,

		"src/App.tsx": `import React from 'react';
import { AppRouter } from './router';
import './App.css';

const App = () => (
  <div className="app">
    <AppRouter />
  </div>
);

export default App;
`,

		"src/main.tsx": `import React from 'react';
import ReactDOM from 'react-dom/client';
import App from './App';
import './index.css';

ReactDOM.createRoot(document.getElementById('root') as HTMLElement).render(
  <React.StrictMode>
    <App />
  </React.StrictMode>,
);
`,

		"src/App.css": `.app {
  padding: 1rem;
}

.layout {
  display: flex;
}

.navbar {
  display: flex;
  gap: 1rem;
}

button {
  cursor: pointer;
}
`,

		"src/index.css": `:root {
  font-family: sans-serif;
}

* {
  box-sizing: border-box;
}

body {
  margin: 0;
}
`,
	}
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return root
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadInputs(t *testing.T, files map[string]string) *validators.Inputs {
	t.Helper()

	cfg := config.Config{
		Root:        writeTree(t, files),
		ERDPath:     "erd.json",
		OpenAPIPath: "openapi.json",
		Baseline:    config.BaselineConfig{Dir: ".stagegate", Codec: "json"},
	}

	in, err := validators.LoadInputs(cfg, discardLogger())
	require.NoError(t, err)

	return in
}

func errorDiags(out validators.Outcome) []modgraph.Diagnostic {
	var errs []modgraph.Diagnostic

	for _, diag := range out.Diagnostics {
		if diag.Severity == modgraph.SeverityError {
			errs = append(errs, diag)
		}
	}

	return errs
}

func hasKind(diags []modgraph.Diagnostic, kind modgraph.Kind) bool {
	for _, diag := range diags {
		if diag.Kind == kind {
			return true
		}
	}

	return false
}
