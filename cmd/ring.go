/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/fillit/filledhole"
	"github.com/notargets/fillit/geometry"
	"github.com/notargets/fillit/nastran"
	"github.com/notargets/fillit/readfiles"
)

// RingCmd represents the ring command
var RingCmd = &cobra.Command{
	Use:   "ring <bulk-file>",
	Short: "Print the ordered element ring around a fastener node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var log *zap.Logger
		if log, err = newLogger(); err != nil {
			return
		}
		defer log.Sync()
		node, _ := cmd.Flags().GetInt("node")
		depth, _ := cmd.Flags().GetInt("depth")
		axis, _ := cmd.Flags().GetInt("axis")
		var code geometry.AxisCode
		if code, err = geometry.NewAxisCode(axis); err != nil {
			return
		}
		m := nastran.NewModel(log)
		if err = readfiles.ReadBulkData(args[0], m, log); err != nil {
			return
		}
		return PrintRing(os.Stdout, filledhole.NewEngine(m, log, 1), node, depth, code)
	},
}

func init() {
	rootCmd.AddCommand(RingCmd)
	RingCmd.Flags().IntP("node", "n", 0, "fastener node")
	RingCmd.Flags().IntP("depth", "d", 3, "patch size N, the ring holds 4N-4 elements")
	RingCmd.Flags().IntP("axis", "a", int(geometry.DefaultAxisCode), "axis code")
	_ = RingCmd.MarkFlagRequired("node")
}

// PrintRing evaluates the fastener ends at node and writes their sides
func PrintRing(w io.Writer, e *filledhole.Engine, node, depth int, code geometry.AxisCode) error {
	locs := e.LocationsAt(node)
	if len(locs) == 0 {
		return fmt.Errorf("no fastener at node %d", node)
	}
	for _, loc := range locs {
		e.Evaluate(filledhole.Job{Location: loc, Params: filledhole.Params{
			Depth: depth, AsIs: true, Axes: [2]geometry.AxisCode{code, code},
		}})
		b, _ := e.Model().Bush(loc.Bush)
		s := b.Sides(loc.Side)
		fmt.Fprintf(w, "node %d, CBUSH %d side %s", node, loc.Bush, sideName(loc.Side))
		if loc.Paired() {
			fmt.Fprintf(w, ", pair CBUSH %d", loc.Pair)
		}
		fmt.Fprintln(w)
		if s.Empty() {
			fmt.Fprintf(w, "  no ring of %d elements\n", 4*depth-4)
			continue
		}
		for i, side := range s {
			fmt.Fprintf(w, "  side %d: %v\n", i+1, side)
		}
		fmt.Fprintf(w, "  ring: %v\n", filledhole.RingOrder(s))
	}
	return nil
}

func sideName(side int) string {
	if side == nastran.SideA {
		return "A"
	}
	return "B"
}
