package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trinitylake-io/trinitylake-go/catalog"
	"github.com/trinitylake-io/trinitylake-go/config"
)

func init() {
	tableCommand := &cobra.Command{
		Use:   "table",
		Short: "Manage tables within a lakehouse namespace",
	}

	tableCommand.AddCommand(
		newTableCreateCommand(),
		newTableAlterCommand(),
		newTableDropCommand(),
		newTableDescribeCommand(),
		newTableListCommand(),
		newTableExistsCommand(),
	)
	RootCommand.AddCommand(tableCommand)
}

func newTableCreateCommand() *cobra.Command {
	var storageFlags storageFlags
	var descriptor string

	cmd := &cobra.Command{
		Use:   "create <namespace> <table>",
		Short: "Create a table",
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.BindEnv(cmd)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			store, closer, err := storageFlags.open()
			if err != nil {
				return err
			}
			defer func() { _ = closer() }()

			ctx := cmdContext()
			c := catalog.New(store)
			tx, err := c.BeginTransaction(ctx)
			if err != nil {
				return err
			}
			tx, err = c.CreateTable(ctx, tx, args[0], args[1], []byte(descriptor))
			if err != nil {
				return err
			}
			if _, err := c.CommitTransaction(ctx, tx); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "table %q.%q created\n", args[0], args[1])
			return nil
		},
	}
	addStorageFlags(cmd.Flags(), &storageFlags)
	cmd.Flags().StringVar(&descriptor, "descriptor", "", "table descriptor payload")
	return cmd
}

func newTableAlterCommand() *cobra.Command {
	var storageFlags storageFlags
	var descriptor string

	cmd := &cobra.Command{
		Use:   "alter <namespace> <table>",
		Short: "Replace a table's descriptor",
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.BindEnv(cmd)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			store, closer, err := storageFlags.open()
			if err != nil {
				return err
			}
			defer func() { _ = closer() }()

			ctx := cmdContext()
			c := catalog.New(store)
			tx, err := c.BeginTransaction(ctx)
			if err != nil {
				return err
			}
			tx, err = c.AlterTable(ctx, tx, args[0], args[1], []byte(descriptor))
			if err != nil {
				return err
			}
			if _, err := c.CommitTransaction(ctx, tx); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "table %q.%q altered\n", args[0], args[1])
			return nil
		},
	}
	addStorageFlags(cmd.Flags(), &storageFlags)
	cmd.Flags().StringVar(&descriptor, "descriptor", "", "new table descriptor payload")
	return cmd
}

func newTableDropCommand() *cobra.Command {
	var storageFlags storageFlags

	cmd := &cobra.Command{
		Use:   "drop <namespace> <table>",
		Short: "Drop a table",
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.BindEnv(cmd)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			store, closer, err := storageFlags.open()
			if err != nil {
				return err
			}
			defer func() { _ = closer() }()

			ctx := cmdContext()
			c := catalog.New(store)
			tx, err := c.BeginTransaction(ctx)
			if err != nil {
				return err
			}
			tx, err = c.DropTable(ctx, tx, args[0], args[1])
			if err != nil {
				return err
			}
			if _, err := c.CommitTransaction(ctx, tx); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "table %q.%q dropped\n", args[0], args[1])
			return nil
		},
	}
	addStorageFlags(cmd.Flags(), &storageFlags)
	return cmd
}

func newTableDescribeCommand() *cobra.Command {
	var storageFlags storageFlags

	cmd := &cobra.Command{
		Use:   "describe <namespace> <table>",
		Short: "Print a table's descriptor",
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.BindEnv(cmd)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			store, closer, err := storageFlags.open()
			if err != nil {
				return err
			}
			defer func() { _ = closer() }()

			ctx := cmdContext()
			c := catalog.New(store)
			tx, err := c.BeginTransaction(ctx)
			if err != nil {
				return err
			}
			descriptor, err := c.DescribeTable(ctx, tx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(descriptor))
			return nil
		},
	}
	addStorageFlags(cmd.Flags(), &storageFlags)
	return cmd
}

func newTableListCommand() *cobra.Command {
	var storageFlags storageFlags

	cmd := &cobra.Command{
		Use:   "list <namespace>",
		Short: "List every table in a namespace",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.BindEnv(cmd)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			store, closer, err := storageFlags.open()
			if err != nil {
				return err
			}
			defer func() { _ = closer() }()

			ctx := cmdContext()
			c := catalog.New(store)
			tx, err := c.BeginTransaction(ctx)
			if err != nil {
				return err
			}
			tables, err := c.ShowTables(tx, args[0])
			if err != nil {
				return err
			}
			for _, name := range tables {
				fmt.Fprintln(os.Stdout, name)
			}
			return nil
		},
	}
	addStorageFlags(cmd.Flags(), &storageFlags)
	return cmd
}

func newTableExistsCommand() *cobra.Command {
	var storageFlags storageFlags

	cmd := &cobra.Command{
		Use:   "exists <namespace> <table>",
		Short: "Check whether a table exists",
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.BindEnv(cmd)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			store, closer, err := storageFlags.open()
			if err != nil {
				return err
			}
			defer func() { _ = closer() }()

			ctx := cmdContext()
			c := catalog.New(store)
			tx, err := c.BeginTransaction(ctx)
			if err != nil {
				return err
			}
			if c.TableExists(tx, args[0], args[1]) {
				fmt.Fprintln(os.Stdout, "true")
				return nil
			}
			fmt.Fprintln(os.Stdout, "false")
			return nil
		},
	}
	addStorageFlags(cmd.Flags(), &storageFlags)
	return cmd
}
