package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/recallgraph/recallgraph/internal/api"
	"github.com/recallgraph/recallgraph/internal/graphstore"
)

var neighborsCmd = &cobra.Command{
	Use:   "neighbors <event-id>",
	Short: "Print the one-hop neighborhood of an event node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		clientCfg := graphstore.DefaultClientConfig()
		clientCfg.Host = cfg.Graph.Host
		clientCfg.Port = cfg.Graph.Port
		clientCfg.Password = cfg.Graph.Password
		clientCfg.GraphName = cfg.Graph.GraphName
		client := graphstore.NewClient(clientCfg)

		if err := client.Connect(cmd.Context()); err != nil {
			return err
		}
		defer client.Close()

		neighbors, err := client.Neighbors(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(neighbors) == 0 {
			fmt.Fprintf(os.Stderr, "no event with id %q\n", args[0])
			os.Exit(1)
		}

		return api.WriteJSON(os.Stdout, map[string]interface{}{
			"event_id":  args[0],
			"neighbors": neighbors,
		})
	},
}
