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
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/notargets/fillit/InputParameters"
	"github.com/notargets/fillit/filledhole"
	"github.com/notargets/fillit/nastran"
	"github.com/notargets/fillit/output"
	"github.com/notargets/fillit/readfiles"
)

// AllReport is the report name of an ALL run
const AllReport = "FH_Data"

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run <control-file>",
	Short: "Compute filled hole loads for the fasteners of a control file",
	Long: `
Computes the filled hole loads named by a control file, YAML:

	Input: model.bdf
	Punch: [run1.pch]
	Subcases: [1, 2]
	All: {Composite: false, Depth: 3, MaterialFlux: true, MaterialForces: true, Axis: 32}
	Groups: [wing.grp]

or the keyword format with INPUT, PUNCH, SUBCASES, ALL and GROUP blocks.
An ALL run writes FH_Data.res in the output directory, each group file
writes a report next to itself.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			log *zap.Logger
			ip  *InputParameters.InputParameters
			wr  output.Writer
		)
		if log, err = newLogger(); err != nil {
			return
		}
		defer log.Sync()
		log = log.With(zap.String("run", uuid.NewString()))
		if ip, err = InputParameters.ReadControlFile(args[0]); err != nil {
			return
		}
		if wr, err = output.New(viper.GetString("output.format")); err != nil {
			return
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			ip.Print()
		}
		outDir, _ := cmd.Flags().GetString("out")
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		var files []string
		files, err = RunControl(ctx, ip, RunConfig{
			Log:     log,
			Workers: viper.GetInt("workers"),
			Writer:  wr,
			OutDir:  outDir,
		})
		for _, f := range files {
			fmt.Println("wrote", f)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("out", "o", ".", "directory of the ALL report")
	RunCmd.Flags().BoolP("verbose", "v", false, "print the control parameters")
}

type RunConfig struct {
	Log     *zap.Logger
	Workers int
	Writer  output.Writer
	OutDir  string
}

/*
RunControl loads the model and results of a control file, evaluates the ALL
selection and each group and writes their reports. Unreadable punch and group
files are logged and skipped, the written report files are returned.
*/
func RunControl(ctx context.Context, ip *InputParameters.InputParameters, rc RunConfig) (files []string, err error) {
	log := rc.Log
	if log == nil {
		log = zap.NewNop()
	}
	if rc.Writer == nil {
		rc.Writer = output.CSVWriter{}
	}
	m := nastran.NewModel(log)
	if err = readfiles.ReadBulkData(ip.Input, m, log); err != nil {
		return
	}
	for _, p := range ip.Punch {
		if err := readfiles.ReadPunch(p, m, log); err != nil {
			log.Warn("skipping punch file", zap.Error(err))
		}
	}
	e := filledhole.NewEngine(m, log, rc.Workers)
	if ip.All != nil {
		p := ip.All.Params()
		if err = e.Run(ctx, e.AllJobs(p)); err != nil {
			return
		}
		rows := e.Rows(e.Locations(), filledhole.RowOptions{Subcases: ip.Subcases, Composite: ip.All.Composite})
		var fn string
		if fn, err = output.WriteFile(rc.Writer, filepath.Join(rc.OutDir, AllReport),
			output.NewTable(rows, filledhole.RingWidth(p.Depth))); err != nil {
			return
		}
		files = append(files, fn)
	}
	for _, group := range ip.Groups {
		entries, skipped, gerr := InputParameters.ReadGroupFile(group)
		if gerr != nil {
			log.Warn("skipping group file", zap.Error(gerr))
			continue
		}
		for _, s := range skipped {
			log.Warn("skipping group line", zap.String("group", group), zap.Int("line", s.Line),
				zap.String("reason", s.Reason))
		}
		if err = e.Run(ctx, e.GroupJobs(entries)); err != nil {
			return
		}
		depths := make([]int, len(entries))
		for i, ge := range entries {
			depths[i] = ge.Depth
		}
		rows := e.Rows(e.ReportLocations(entries), filledhole.RowOptions{Subcases: ip.Subcases})
		var fn string
		if fn, err = output.WriteFile(rc.Writer, InputParameters.OutputName(group, ""),
			output.NewTable(rows, filledhole.RingWidth(depths...))); err != nil {
			return
		}
		files = append(files, fn)
	}
	return
}
