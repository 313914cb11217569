package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tasa-sync/tasa/internal/arva"
	"github.com/tasa-sync/tasa/internal/report"
	"github.com/tasa-sync/tasa/internal/store"
	tasasync "github.com/tasa-sync/tasa/internal/sync"
	"github.com/tasa-sync/tasa/internal/ui"
)

// newSink builds the per-operation message sink: styled console lines plus
// the structured log file, wrapped in a recorder so the command can turn
// reported errors into a non-zero exit.
func newSink() *report.Recorder {
	console := report.Func(func(kind report.Kind, message string) {
		if kind == report.Error {
			fmt.Fprintf(os.Stderr, "%s %s\n", ui.RenderFail("✗"), message)
			return
		}
		fmt.Printf("%s %s\n", ui.RenderPass("✓"), message)
	})
	return report.NewRecorder(report.Multi(console, report.NewZapSink(logger)))
}

// finish converts recorded sink errors into the command's exit status.
func finish(rec *report.Recorder) error {
	if n := rec.ErrorCount(); n > 0 {
		return fmt.Errorf("completed with %d error(s)", n)
	}
	return nil
}

// openProject validates the project name and opens its store.
func openProject(project string, mustExist bool) (*store.Store, error) {
	if err := store.ValidateProject(project); err != nil {
		return nil, err
	}
	if mustExist && !store.ProjectExists(dataDir(), project) {
		return nil, fmt.Errorf("project %q doesn't exist", project)
	}
	return store.Open(store.ProjectPath(dataDir(), project))
}

// newClient builds the API client for an environment, resolving its endpoint
// and bearer token.
func newClient(env store.Env) (*arva.Client, error) {
	token, err := cfg.ResolveToken(env)
	if err != nil {
		return nil, err
	}
	return arva.New(cfg.Endpoint(env), token, arva.Options{
		InsecureSkipVerify: insecureTLS(),
	}), nil
}

func parseEnv(arg string) (store.Env, error) {
	env := store.Env(strings.ToLower(strings.TrimSpace(arg)))
	if !env.Valid() {
		return "", fmt.Errorf("invalid environment %q: choose from dev, test or prod", arg)
	}
	return env, nil
}

// parseArticleIDs splits a comma-separated id list.
func parseArticleIDs(arg string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(arg, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid article id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no article ids given")
	}
	return ids, nil
}

// The op functions below are shared by the subcommands and the interactive
// menu. Each runs one engine operation against a sink and reports the
// outcome through it.

func opInit(project string) error {
	rec := newSink()

	if err := store.ValidateProject(project); err != nil {
		report.Errorf(rec, "%v", err)
		return finish(rec)
	}
	if store.ProjectExists(dataDir(), project) {
		report.Errorf(rec, "Project %q already exists!", project)
		return finish(rec)
	}

	st, err := store.Open(store.ProjectPath(dataDir(), project))
	if err != nil {
		report.Errorf(rec, "Error creating project store: %v", err)
		return finish(rec)
	}
	defer st.Close()

	if err := st.CreateSchema(context.Background(), project); err != nil {
		report.Errorf(rec, "Error creating database tables: %v", err)
		return finish(rec)
	}
	report.Infof(rec, "Database and tables created successfully in: %s", st.Path())
	return finish(rec)
}

func opCopy(project string, source, target store.Env) error {
	rec := newSink()

	st, err := openProject(project, true)
	if err != nil {
		report.Errorf(rec, "%v", err)
		return finish(rec)
	}
	defer st.Close()

	if err := st.CopyEnvironment(context.Background(), project, source, target); err != nil {
		report.Errorf(rec, "An error occurred: %v", err)
		return finish(rec)
	}
	report.Infof(rec, "Data copied from %s to %s for project %q.", source, target, project)
	return finish(rec)
}

func opPull(project string, env store.Env, ids []int64) error {
	rec := newSink()

	st, err := openProject(project, true)
	if err != nil {
		report.Errorf(rec, "%v", err)
		return finish(rec)
	}
	defer st.Close()

	client, err := newClient(env)
	if err != nil {
		report.Errorf(rec, "%v", err)
		return finish(rec)
	}

	tasasync.NewPuller(st, client, rec).Pull(context.Background(), project, env, ids)
	return finish(rec)
}

func opPush(project string, env store.Env) error {
	rec := newSink()

	st, err := openProject(project, true)
	if err != nil {
		report.Errorf(rec, "%v", err)
		return finish(rec)
	}
	defer st.Close()

	client, err := newClient(env)
	if err != nil {
		report.Errorf(rec, "%v", err)
		return finish(rec)
	}

	tasasync.NewPusher(st, client, rec).Push(context.Background(), project, env)
	return finish(rec)
}
