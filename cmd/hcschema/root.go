package main

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"liyu1981.xyz/home-controller-schema/pkg/admin"
	"liyu1981.xyz/home-controller-schema/pkg/common"
	"liyu1981.xyz/home-controller-schema/pkg/db"
)

// app holds what the subcommands share: config after flag overrides and
// the open database.
type app struct {
	cfg     common.Config
	envFile string
	dbType  string
	dbPath  string
	db      *db.DB
	admin   *admin.Admin
	fs      afero.Fs
}

// annotationNoDB marks commands that work on files only.
const annotationNoDB = "hcschema/no-db"

// needsDB is false for file-only commands and for cobra's help and
// completion commands, which must not create a database as a side effect.
func needsDB(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
		if c.Annotations[annotationNoDB] == "true" {
			return false
		}
	}
	return true
}

func newRootCmd() *cobra.Command {
	a := &app{fs: afero.NewOsFs()}

	root := &cobra.Command{
		Use:   "hcschema",
		Short: "Manage the home controller database schema",
		Long: `hcschema creates and drops the fourteen home controller tables
(config, device, zone, port, timer, user, zone commands, ...), tracks which
migrations ran, dumps the stored DDL and converts it to and from Atlas HCL.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.open,
		PersistentPostRunE: a.close,
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().StringVar(&a.dbType, "db-type", "", "database driver: file, pure or memory (env "+common.EnvKeyHCDBType+")")
	root.PersistentFlags().StringVar(&a.dbPath, "db-path", "", "sqlite database path (env "+common.EnvKeyHCDbPath+")")

	root.AddCommand(
		newApplyCmd(a),
		newRevertCmd(a),
		newStatusCmd(a),
		newDumpCmd(a),
		newSplitCmd(a),
		newHCLCmd(a),
		newHCLToDDLCmd(a),
		newServeCmd(a),
	)

	return root
}

func (a *app) open(cmd *cobra.Command, args []string) error {
	if !needsDB(cmd) {
		return nil
	}

	if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		return err
	}
	if a.dbType != "" {
		cfg.DBType = a.dbType
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	a.cfg = cfg

	dialector, err := db.DialectorFromConfig(cfg)
	if err != nil {
		return err
	}
	if a.db, err = db.Open(dialector); err != nil {
		return err
	}

	common.GetLoggerWith(common.LoggerNameCli).Debug("Opened database",
		zap.String("type", cfg.DBType), zap.String("path", cfg.DBPath))

	a.admin = &admin.Admin{Db: *a.db}
	a.admin.WithServices(admin.ServiceOpts{Schema: a.admin.GetISchema()})
	return nil
}

func (a *app) close(cmd *cobra.Command, args []string) error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
