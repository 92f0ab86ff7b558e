package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/bountybridge/internal/app"
	"github.com/firefly-engineering/bountybridge/internal/registry"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List available tracker types and their keys",
	RunE:  runTypes,
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

func runTypes(cmd *cobra.Command, args []string) error {
	a := app.Default

	// Plugin types only exist once the document's plugins are loaded.
	store := a.Store()
	if store.Exists(paths().ConfigFile) {
		doc, err := store.Load(paths().ConfigFile)
		if err != nil {
			return err
		}
		if len(doc.Plugins) > 0 {
			if _, err := a.Loader.Register(cmd.Context(), a.Registry, doc.ExpandedPlugins()); err != nil {
				return err
			}
		}
	}

	types := a.Registry.Types()
	if len(types) == 0 {
		logInfo("No tracker types available.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tNAME\tMANDATORY\tSECRET\tOPTIONAL")
	fmt.Fprintln(w, "----\t----\t---------\t------\t--------")

	for _, typeID := range types {
		impl, err := a.Registry.Resolve(typeID)
		if err != nil {
			return err
		}
		s := impl.Schema()
		optional := make([]string, len(s.Optional))
		for i, o := range s.Optional {
			optional[i] = o.Key
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", typeID, registry.DisplayName(typeID),
			joinOrDash(s.Mandatory), joinOrDash(s.Secret), joinOrDash(optional))
	}

	return w.Flush()
}

func joinOrDash(keys []string) string {
	if len(keys) == 0 {
		return "-"
	}
	return strings.Join(keys, ",")
}
