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
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fillit/nastran"
	"github.com/notargets/fillit/readfiles"
)

// LaminateCmd represents the laminate command
var LaminateCmd = &cobra.Command{
	Use:   "laminate <bulk-file> [pid...]",
	Short: "Print the laminate stiffness of PCOMP properties",
	Long: `
Prints the A, B and D matrices and the equivalent membrane constants of each
PCOMP in a bulk data deck, or of the listed property IDs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var log *zap.Logger
		if log, err = newLogger(); err != nil {
			return
		}
		defer log.Sync()
		var pids []int
		for _, a := range args[1:] {
			var pid int
			if pid, err = strconv.Atoi(a); err != nil {
				return fmt.Errorf("property ID %q: %w", a, err)
			}
			pids = append(pids, pid)
		}
		m := nastran.NewModel(log)
		if err = readfiles.ReadBulkData(args[0], m, log); err != nil {
			return
		}
		return PrintLaminates(os.Stdout, m, pids)
	},
}

func init() {
	rootCmd.AddCommand(LaminateCmd)
}

// PrintLaminates writes the laminate of each PCOMP in pids, every PCOMP when
// pids is empty
func PrintLaminates(w io.Writer, m *nastran.Model, pids []int) error {
	if len(pids) == 0 {
		pids = m.PCompIDs()
	}
	for _, pid := range pids {
		p, ok := m.PComp(pid)
		if !ok {
			return fmt.Errorf("PCOMP %d not found", pid)
		}
		lam, err := m.Laminate(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "PCOMP %d, %d plies, thickness %g\n", pid, len(p.Layup()), lam.Thickness)
		for _, mx := range []struct {
			name string
			m    *mat.Dense
		}{{"A", lam.A}, {"B", lam.B}, {"D", lam.D}} {
			fmt.Fprintf(w, "%s = %10.4g\n", mx.name, mat.Formatted(mx.m, mat.Prefix("    ")))
		}
		fmt.Fprintf(w, "E11 = %g\nE22 = %g\nNU12 = %g\nNU21 = %g\nG12 = %g\n\n",
			lam.E11, lam.E22, lam.NU12, lam.NU21, lam.G12)
	}
	return nil
}
