package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/maercaestro/oasis/pkg/config"
	"github.com/maercaestro/oasis/pkg/genetic"
	"github.com/maercaestro/oasis/pkg/log"
	"github.com/maercaestro/oasis/pkg/optimizer"
	"github.com/maercaestro/oasis/pkg/planner"
	"github.com/maercaestro/oasis/pkg/tanks"
	"github.com/maercaestro/oasis/pkg/vessel"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "oasis",
	Short:   "OASIS - refinery blending, vessel, and scheduling planner",
	Long:    `OASIS plans the short-horizon operation of a crude-oil refinery: blending, tank withdrawal, vessel deployment, and hourly schedule optimization.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("oasis version %s\nCommit: %s\nBuilt: %s\n", Version, Commit, BuildTime))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringP("config", "c", "oasis.yaml", "Path to the planning run's YAML configuration")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(vesselsCmd)
	rootCmd.AddCommand(geneticCmd)
	rootCmd.AddCommand(fivetankCmd)
}

func initLogging() {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	jsonOutput, _ := rootCmd.PersistentFlags().GetBool("log-json")
	log.Init(log.Config{Level: log.Level(level), JSONOutput: jsonOutput})
}

func loadConfig(cmd *cobra.Command) (*config.File, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run the full pipeline: vessel optimizer, greedy scheduler, and LP refiner",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		tm := tanks.New(cfg.BuildTanks()...)
		out, err := planner.Run(planner.Input{
			Recipes:       cfg.Recipes,
			Crudes:        cfg.Crudes,
			Tanks:         tm,
			MaxRate:       cfg.MaxRate,
			Days:          cfg.Days,
			Routes:        cfg.Routes,
			Requirements:  cfg.Requirements,
			Refinery:      cfg.Refinery,
			VesselClasses: cfg.VesselClasses,
			RunLPRefiner:  true,
			LPObjective:   optimizer.Margin,
			LPConfig:      optimizer.DefaultConfig(),
		})
		if err != nil {
			return err
		}

		fmt.Printf("deployed %d vessels, %d days scheduled, %d days refined\n",
			len(out.Vessels), len(out.GreedySchedule), len(out.RefinedSchedule))
		return nil
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run only the greedy day-by-day scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		tm := tanks.New(cfg.BuildTanks()...)
		out, err := planner.Run(planner.Input{
			Recipes: cfg.Recipes, Crudes: cfg.Crudes, Tanks: tm,
			MaxRate: cfg.MaxRate, Days: cfg.Days,
		})
		if err != nil {
			return err
		}
		for _, plan := range out.GreedySchedule {
			fmt.Printf("day %d: margin=%.2f inventory=%.0f\n", plan.Day, plan.DailyMargin, plan.Inventory)
		}
		return nil
	},
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run the greedy scheduler, then re-solve it with the LP refiner",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		tm := tanks.New(cfg.BuildTanks()...)
		out, err := planner.Run(planner.Input{
			Recipes: cfg.Recipes, Crudes: cfg.Crudes, Tanks: tm,
			MaxRate: cfg.MaxRate, Days: cfg.Days,
			RunLPRefiner: true, LPObjective: optimizer.Margin, LPConfig: optimizer.DefaultConfig(),
		})
		if err != nil {
			return err
		}
		for _, plan := range out.RefinedSchedule {
			fmt.Printf("day %d: margin=%.2f inventory=%.0f\n", plan.Day, plan.DailyMargin, plan.Inventory)
		}
		return nil
	},
}

var vesselsCmd = &cobra.Command{
	Use:   "vessels",
	Short: "Run only the vessel deployment optimizer",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		tm := tanks.New(cfg.BuildTanks()...)
		out, err := planner.Run(planner.Input{
			Recipes: cfg.Recipes, Crudes: cfg.Crudes, Tanks: tm,
			MaxRate: cfg.MaxRate, Days: cfg.Days,
			Routes: cfg.Routes, Requirements: cfg.Requirements,
			Refinery: cfg.Refinery, VesselClasses: cfg.VesselClasses,
		})
		if err != nil {
			return err
		}
		for _, v := range out.Vessels {
			fmt.Printf("vessel %s: arrival day %d, %d parcels\n", v.VesselID, v.ArrivalDay, len(v.Cargo))
			locations := out.VesselDailyLocation[v.VesselID]
			days := make([]int, 0, len(locations))
			for d := range locations {
				days = append(days, d)
			}
			sort.Ints(days)
			for _, d := range days {
				fmt.Printf("  day %d: %s\n", d, locations[d])
			}
		}
		return nil
	},
}

var geneticCmd = &cobra.Command{
	Use:   "genetic",
	Short: "Run the hourly genetic schedule optimizer",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		gcfg := genetic.DefaultConfig(cfg.Days, cfg.MaxRate)
		result, err := genetic.Optimize(cfg.Recipes, cfg.Crudes, cfg.OpeningInventoryByGrade(), nil, gcfg)
		if err != nil {
			return err
		}
		fmt.Printf("best fitness %.2f (feasible=%v) after %d generations\n",
			result.Fitness.Fitness, result.Fitness.Feasible, result.Generations)
		return nil
	},
}

var fivetankCmd = &cobra.Command{
	Use:   "fivetank",
	Short: "Run the quality-constrained 5-tank LP variant and compare it against the main LP refiner",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var deliveries map[int]map[string]float64
		if len(cfg.Requirements) > 0 {
			vessels, err := vessel.Optimize(cfg.Requirements, cfg.Refinery, cfg.Routes, cfg.VesselClasses, vessel.DefaultConfig())
			if err != nil {
				return fmt.Errorf("fivetank: vessel stage: %w", err)
			}
			deliveries = vessel.ArrivalsByDay(vessels)
		}

		results, err := optimizer.OptimizeFiveTank(cfg.Days, cfg.Crudes, cfg.Products, cfg.OpeningInventoryByGrade(), deliveries, cfg.MaxRate, optimizer.DefaultConfig())
		if err != nil {
			return err
		}

		var fiveTankProfit float64
		for _, r := range results {
			fiveTankProfit += r.GrossProfit
			fmt.Printf("day %d: gross profit=%.2f\n", r.Day, r.GrossProfit)
		}

		tm := tanks.New(cfg.BuildTanks()...)
		out, err := planner.Run(planner.Input{
			Recipes: cfg.Recipes, Crudes: cfg.Crudes, Tanks: tm,
			MaxRate: cfg.MaxRate, Days: cfg.Days,
			Routes: cfg.Routes, Requirements: cfg.Requirements,
			Refinery: cfg.Refinery, VesselClasses: cfg.VesselClasses,
			RunLPRefiner: true, LPObjective: optimizer.Margin, LPConfig: optimizer.DefaultConfig(),
		})
		if err != nil {
			return fmt.Errorf("fivetank: main LP refiner comparison: %w", err)
		}
		var refinerMargin float64
		for _, p := range out.RefinedSchedule {
			refinerMargin += p.DailyMargin
		}
		fmt.Printf("five-tank total gross profit: %.2f\nmain LP refiner total margin: %.2f\n", fiveTankProfit, refinerMargin)
		return nil
	},
}
