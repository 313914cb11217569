package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tasa-sync/tasa/internal/store"
	"github.com/tasa-sync/tasa/internal/ui"
)

// runMenu is the interactive front end: a loop of action selection and
// per-action prompts, driving the same operations as the subcommands.
func runMenu(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.RenderBanner())
	fmt.Println("Welcome to TASA, please make your selection.")

	for {
		var action string
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Action").
				Options(
					huh.NewOption("Create a project store", "init"),
					huh.NewOption("Copy data between environments", "copy"),
					huh.NewOption("Pull data from ARVA", "pull"),
					huh.NewOption("Push data to ARVA", "push"),
					huh.NewOption("Quit", "quit"),
				).
				Value(&action),
		))
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		var err error
		switch action {
		case "init":
			err = menuInit()
		case "copy":
			err = menuCopy()
		case "pull":
			err = menuPull()
		case "push":
			err = menuPush()
		case "quit":
			fmt.Println("Exiting program.")
			return nil
		}
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				continue
			}
			// Operation errors were already reported through the sink;
			// stay in the menu so the user can retry or move on.
			fmt.Println(ui.RenderMuted("(returning to menu)"))
		}
	}
}

// promptProject asks for a project name. With mustExist set the store file
// has to be present already; otherwise it must not be.
func promptProject(mustExist bool) (string, error) {
	var project string
	input := huh.NewInput().
		Title("Project name").
		Validate(func(name string) error {
			if err := store.ValidateProject(name); err != nil {
				return err
			}
			exists := store.ProjectExists(dataDir(), name)
			if mustExist && !exists {
				return fmt.Errorf("project doesn't exist")
			}
			if !mustExist && exists {
				return fmt.Errorf("project already exists")
			}
			return nil
		}).
		Value(&project)
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", err
	}
	return project, nil
}

// promptEnv asks for one environment selection.
func promptEnv(title string) (store.Env, error) {
	var env store.Env
	sel := huh.NewSelect[store.Env]().
		Title(title).
		Options(
			huh.NewOption("dev", store.EnvDev),
			huh.NewOption("test", store.EnvTest),
			huh.NewOption("prod", store.EnvProd),
		).
		Value(&env)
	if err := huh.NewForm(huh.NewGroup(sel)).Run(); err != nil {
		return "", err
	}
	return env, nil
}

func menuInit() error {
	project, err := promptProject(false)
	if err != nil {
		return err
	}
	return opInit(project)
}

func menuCopy() error {
	project, err := promptProject(true)
	if err != nil {
		return err
	}
	source, err := promptEnv("Source environment")
	if err != nil {
		return err
	}
	target, err := promptEnv("Target environment")
	if err != nil {
		return err
	}
	return opCopy(project, source, target)
}

func menuPull() error {
	project, err := promptProject(true)
	if err != nil {
		return err
	}
	env, err := promptEnv("Source environment")
	if err != nil {
		return err
	}

	var idList string
	input := huh.NewInput().
		Title("ARVA article ID(s), separated by commas").
		Validate(func(s string) error {
			_, err := parseArticleIDs(s)
			return err
		}).
		Value(&idList)
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return err
	}
	ids, err := parseArticleIDs(idList)
	if err != nil {
		return err
	}

	return opPull(project, env, ids)
}

func menuPush() error {
	project, err := promptProject(true)
	if err != nil {
		return err
	}
	env, err := promptEnv("Target environment")
	if err != nil {
		return err
	}
	return opPush(project, env)
}
