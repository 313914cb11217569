package main

import (
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <project>",
	Short: "Create a project store with the full table layout",
	Long: `Create the SQLite store for a new project: the run log, the staging table
and, per environment (dev/test/prod), the main page table, its update trigger
and the five related-entity tables.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return opInit(args[0])
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy <project> <source-env> <target-env>",
	Short: "Copy one environment's records to another",
	Long: `Append every record of the source environment, and its related rows, to the
target environment within the same project store. Sync bookkeeping
(exp_article_id, status, modified timestamps) is not carried over, so copied
records arrive fresh.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := parseEnv(args[1])
		if err != nil {
			return err
		}
		target, err := parseEnv(args[2])
		if err != nil {
			return err
		}
		return opCopy(args[0], source, target)
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull <project> <env> <article-ids>",
	Short: "Pull pages from ARVA into a project store",
	Long: `Fetch each article's full record graph from the environment's ARVA endpoint
and store it locally. Related rows are replaced wholesale on every pull, so
re-pulling an unchanged article leaves the store unchanged. Article ids are
comma-separated, e.g.: tasa pull myproject dev 42,43,57`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := parseEnv(args[1])
		if err != nil {
			return err
		}
		ids, err := parseArticleIDs(args[2])
		if err != nil {
			return err
		}
		return opPull(args[0], env, ids)
	},
}

var pushCmd = &cobra.Command{
	Use:   "push <project> <env>",
	Short: "Push pending local records to ARVA",
	Long: `Scan the environment for records that are new or have changed since the last
recorded run, create or update each on the environment's ARVA endpoint, and
send its related rows in a follow-up call. One failing record never stops the
rest of the batch.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := parseEnv(args[1])
		if err != nil {
			return err
		}
		return opPush(args[0], env)
	},
}
