package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trinitylake-io/trinitylake-go/catalog"
	"github.com/trinitylake-io/trinitylake-go/config"
)

type createLakehouseParams struct {
	storage    storageFlags
	descriptor string
}

func init() {
	params := createLakehouseParams{}

	createLakehouseCommand := &cobra.Command{
		Use:   "create-lakehouse",
		Short: "Initialize a new lakehouse",
		Long:  "Write the lakehouse descriptor blob and publish root version 0.",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.BindEnv(cmd)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			store, closer, err := params.storage.open()
			if err != nil {
				return err
			}
			defer func() { _ = closer() }()

			c := catalog.New(store)
			if err := c.CreateLakehouse(cmdContext(), []byte(params.descriptor)); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "lakehouse created at root version 0")
			return nil
		},
	}

	addStorageFlags(createLakehouseCommand.Flags(), &params.storage)
	createLakehouseCommand.Flags().StringVar(&params.descriptor, "descriptor", "", "lakehouse descriptor payload")
	RootCommand.AddCommand(createLakehouseCommand)
}
