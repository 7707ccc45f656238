package records

import (
	"fmt"

	"github.com/julianstephens/caltrack/internal/catalog"
	"github.com/julianstephens/caltrack/internal/cli"
	"github.com/julianstephens/caltrack/internal/constants"
	"github.com/julianstephens/caltrack/internal/models"
)

// LogCmd records a quantity of a food for the active user
type LogCmd struct {
	FoodID string  `arg:"" help:"Food id (see 'caltrack food list')."`
	Grams  float64 `arg:"" optional:"" help:"Quantity in grams (default 100)."`
	Date   string  `help:"Date to log on (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	u, err := ctx.ActiveUser()
	if err != nil {
		return err
	}

	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}

	grams := c.Grams
	if grams == 0 {
		grams = constants.DefaultQuantityG
	}

	food, ok := catalog.Find(catalog.FoodsForUser(ctx.Store, u.ID), c.FoodID)
	if !ok {
		return fmt.Errorf("unknown food id %q", c.FoodID)
	}

	rec, err := ctx.Store.AddFoodEntry(u.ID, date, food, grams)
	if err != nil {
		return fmt.Errorf("failed to log food: %w", err)
	}

	entry := rec.Entries[len(rec.Entries)-1]
	ctx.Success("Logged %.0fg %s (%d kcal) on %s", entry.QuantityG, entry.Name, entry.Calories, date)
	printTotals(ctx, rec)
	return nil
}

// DayCmd shows every entry of one day
type DayCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	u, err := ctx.ActiveUser()
	if err != nil {
		return err
	}

	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}

	res := ctx.Store.DailyRecord(date, u.ID)
	if res.Err != nil {
		return fmt.Errorf("failed to read records: %w", res.Err)
	}
	rec, ok := res.Get()
	if !ok || len(rec.Entries) == 0 {
		ctx.Printf("Nothing logged on %s.\n", date)
		return nil
	}

	ctx.Title(fmt.Sprintf("%s: %s", u.Name, date))
	for _, e := range rec.Entries {
		ctx.Printf("  %-24s %7.0fg %6d kcal\n", e.Name, e.QuantityG, e.Calories)
	}
	ctx.Println()
	printTotals(ctx, rec)
	return nil
}

// HistoryCmd lists the most recently stored days
type HistoryCmd struct {
	Last int `help:"Number of stored days to show." default:"7"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	u, err := ctx.ActiveUser()
	if err != nil {
		return err
	}

	recs := ctx.Store.GetLastNRecords(c.Last, u.ID)
	if len(recs) == 0 {
		ctx.Println("No records yet.")
		return nil
	}

	ctx.Title(fmt.Sprintf("History for %s", u.Name))
	for _, r := range recs {
		goal := r.Goal
		if goal == 0 {
			goal = u.DailyCalorieGoal
		}
		line := fmt.Sprintf("  %s %6d kcal", r.Date, r.TotalCalories)
		if goal > 0 {
			line += " " + cli.ProgressBar(r.TotalCalories, goal, 20) + fmt.Sprintf(" %d", goal)
		}
		ctx.Println(line)
	}
	return nil
}

func printTotals(ctx *cli.Context, rec models.DailyRecord) {
	ctx.Field("Total", fmt.Sprintf("%d kcal", rec.TotalCalories))
	if rec.Goal <= 0 {
		return
	}
	ctx.Field("Goal", fmt.Sprintf("%d kcal", rec.Goal))
	remaining := rec.RemainingCalories()
	if remaining < 0 {
		ctx.Println(cli.OverGoalStyle.Render(fmt.Sprintf("Over goal by %d kcal", -remaining)))
	} else {
		ctx.Field("Remaining", fmt.Sprintf("%d kcal", remaining))
	}
	ctx.Println(cli.ProgressBar(rec.TotalCalories, rec.Goal, 30))
}
