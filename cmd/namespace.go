package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trinitylake-io/trinitylake-go/catalog"
	"github.com/trinitylake-io/trinitylake-go/config"
)

func init() {
	namespaceCommand := &cobra.Command{
		Use:   "namespace",
		Short: "Manage lakehouse namespaces",
	}

	namespaceCommand.AddCommand(
		newNamespaceCreateCommand(),
		newNamespaceAlterCommand(),
		newNamespaceDropCommand(),
		newNamespaceDescribeCommand(),
		newNamespaceListCommand(),
		newNamespaceExistsCommand(),
	)
	RootCommand.AddCommand(namespaceCommand)
}

func newNamespaceCreateCommand() *cobra.Command {
	var storageFlags storageFlags
	var descriptor string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a namespace",
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
			tx, err = c.CreateNamespace(ctx, tx, args[0], []byte(descriptor))
			if err != nil {
				return err
			}
			if _, err := c.CommitTransaction(ctx, tx); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "namespace %q created\n", args[0])
			return nil
		},
	}
	addStorageFlags(cmd.Flags(), &storageFlags)
	cmd.Flags().StringVar(&descriptor, "descriptor", "", "namespace descriptor payload")
	return cmd
}

func newNamespaceAlterCommand() *cobra.Command {
	var storageFlags storageFlags
	var descriptor string

	cmd := &cobra.Command{
		Use:   "alter <name>",
		Short: "Replace a namespace's descriptor",
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
			tx, err = c.AlterNamespace(ctx, tx, args[0], []byte(descriptor))
			if err != nil {
				return err
			}
			if _, err := c.CommitTransaction(ctx, tx); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "namespace %q altered\n", args[0])
			return nil
		},
	}
	addStorageFlags(cmd.Flags(), &storageFlags)
	cmd.Flags().StringVar(&descriptor, "descriptor", "", "new namespace descriptor payload")
	return cmd
}

func newNamespaceDropCommand() *cobra.Command {
	var storageFlags storageFlags

	cmd := &cobra.Command{
		Use:   "drop <name>",
		Short: "Drop a namespace",
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
			tx, err = c.DropNamespace(ctx, tx, args[0])
			if err != nil {
				return err
			}
			if _, err := c.CommitTransaction(ctx, tx); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "namespace %q dropped\n", args[0])
			return nil
		},
	}
	addStorageFlags(cmd.Flags(), &storageFlags)
	return cmd
}

func newNamespaceDescribeCommand() *cobra.Command {
	var storageFlags storageFlags

	cmd := &cobra.Command{
		Use:   "describe <name>",
		Short: "Print a namespace's descriptor",
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
			descriptor, err := c.DescribeNamespace(ctx, tx, args[0])
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

func newNamespaceListCommand() *cobra.Command {
	var storageFlags storageFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every namespace in the lakehouse",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.BindEnv(cmd)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
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
			for _, name := range c.ShowNamespaces(tx) {
				fmt.Fprintln(os.Stdout, name)
			}
			return nil
		},
	}
	addStorageFlags(cmd.Flags(), &storageFlags)
	return cmd
}

func newNamespaceExistsCommand() *cobra.Command {
	var storageFlags storageFlags

	cmd := &cobra.Command{
		Use:   "exists <name>",
		Short: "Check whether a namespace exists",
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
			if c.NamespaceExists(tx, args[0]) {
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
