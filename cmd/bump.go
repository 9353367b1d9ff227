package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquiz/internal/buildid"
)

var bumpCmd = &cobra.Command{
	Use:   "bump <file>",
	Short: "Increment the BUILD_ID constant in a script file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		before, err := buildid.Read(path)
		if err != nil {
			return err
		}

		var after int
		if cmd.Flags().Changed("set") {
			n, _ := cmd.Flags().GetInt("set")
			after, err = buildid.Set(path, n)
		} else {
			after, err = buildid.Bump(path)
		}
		if err != nil {
			return err
		}
		fmt.Printf("BUILD_ID %d -> %d\n", before, after)
		return nil
	},
}

func init() {
	bumpCmd.Flags().Int("set", 0, "Set BUILD_ID to this value instead of incrementing")
}
