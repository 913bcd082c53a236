package main

import (
	"fmt"
	"os"

	"github.com/rstms/pds/dataset"
	"github.com/spf13/cobra"
)

var longFormat bool
var findName string

var rootCmd = &cobra.Command{
	Use:   "pdslist FILE",
	Short: "list the members of a partitioned dataset directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := dataset.Open(args[0])
		if err != nil {
			return err
		}
		if findName != "" {
			found, err := ds.HasMember(findName)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("member not found: %s", findName)
			}
			return nil
		}
		if longFormat {
			entries, err := ds.Entries()
			if err != nil {
				return err
			}
			for _, entry := range entries {
				alias := " "
				if entry.Alias {
					alias = "*"
				}
				fmt.Printf("%-8s %s %06X %3d\n", entry.Name, alias, entry.TTR, len(entry.UserData))
			}
			return nil
		}
		members, err := ds.Members()
		if err != nil {
			return err
		}
		for _, member := range members {
			fmt.Println(member)
		}
		return nil
	},
}

func main() {
	rootCmd.Flags().BoolVarP(&longFormat, "long", "l", false, "show TTR, alias flag and user data length")
	rootCmd.Flags().StringVarP(&findName, "find", "f", "", "exit zero if the named member exists")
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
