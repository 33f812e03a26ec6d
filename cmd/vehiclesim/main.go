package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/vehiclesim/internal/config"
	"github.com/san-kum/vehiclesim/internal/sim"
	"github.com/san-kum/vehiclesim/internal/storage"
	"github.com/san-kum/vehiclesim/internal/transport"
	"github.com/san-kum/vehiclesim/internal/viz"
)

var (
	dataDir    string
	configFile string
	listenAddr string
	duration   float64
	accel      float64
	steer      float64
	frameRate  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vehiclesim",
		Short: "ground vehicle dynamics simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".vehiclesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the simulator with the websocket command/state channels",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides config)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the model offline and record the result",
		RunE:  runOffline,
	}
	runCmd.Flags().Float64Var(&duration, "time", 10.0, "simulated duration (s)")
	runCmd.Flags().Float64Var(&accel, "accel", 1.0, "commanded acceleration (m/s^2)")
	runCmd.Flags().Float64Var(&steer, "steer", 0.0, "commanded steering angle (rad)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the model offline with a live trajectory view",
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&accel, "accel", 1.0, "commanded acceleration (m/s^2)")
	liveCmd.Flags().Float64Var(&steer, "steer", 0.05, "commanded steering angle (rad)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	rootCmd.AddCommand(serveCmd, runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.LoadOrDefault(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	cell := sim.NewCommandCell()
	hub := transport.NewHub(cell, log)
	loop := sim.NewLoop(cfg.Vehicle, cfg.InitialState(), cell, log)
	loop.AddObserver(hub)

	// A channel that cannot be opened is the one fatal startup error.
	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.ListenAddr, err)
	}
	srv := &http.Server{Handler: hub.Router()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	log.Info().Str("addr", cfg.ListenAddr).
		Float64("x0", cfg.X0).Float64("y0", cfg.Y0).Float64("psi0", cfg.Psi0).
		Msg("starting simulator")

	err = loop.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// offlineSchedule builds the command profile for run/live: the config
// schedule when one is present, otherwise the constant command flags.
func offlineSchedule(cfg *config.Config) []sim.ScheduleEntry {
	if len(cfg.Schedule) > 0 {
		return cfg.Schedule
	}
	return []sim.ScheduleEntry{{T: 0, Accel: accel, Steer: steer}}
}

func runOffline(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(configFile)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	schedule := offlineSchedule(cfg)
	runner := &sim.Runner{
		Params:   cfg.Vehicle,
		Initial:  cfg.InitialState(),
		Schedule: schedule,
	}

	fmt.Printf("running vehicle simulation for %.1fs...\n", duration)
	start := time.Now()
	result := runner.Run(duration)
	elapsed := time.Since(start)

	runID, err := st.Save(duration, schedule, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(result.Estimates))
	fmt.Printf("final: x=%.2f y=%.2f psi=%.3f v=%.2f\n",
		result.Final.X, result.Final.Y, result.Final.Psi, result.Final.Vx)

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tDURATION\tDT\tSUBSTEPS\tCOMMANDS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.DiscSteps,
			len(run.Schedule),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	_, rows, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("duration: %.2fs at %.0f hz\n\n", meta.Duration, 1.0/meta.Dt)

	captions := map[string]string{
		"x":   "x position (m)",
		"y":   "y position (m)",
		"psi": "heading (rad)",
		"v":   "forward speed (m/s)",
		"a":   "acceleration (m/s^2)",
		"df":  "steering angle (rad)",
	}

	for col, name := range storage.Columns() {
		data := make([]float64, len(rows))
		for i := range rows {
			data[i] = rows[i][col]
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(captions[name]),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	times, rows, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write(append([]string{"time"}, storage.Columns()...)); err != nil {
		return err
	}

	for i := range rows {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range rows[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	times, rows, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	out := struct {
		Metadata *storage.RunMetadata `json:"metadata"`
		Columns  []string             `json:"columns"`
		Times    []float64            `json:"times"`
		Series   [][]float64          `json:"series"`
	}{meta, storage.Columns(), times, rows}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(configFile)
	if err != nil {
		return err
	}

	m := viz.NewModel(cfg.Vehicle, cfg.InitialState(), offlineSchedule(cfg), frameRate)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
