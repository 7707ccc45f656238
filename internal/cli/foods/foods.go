package foods

import (
	"fmt"
	"strings"

	"github.com/julianstephens/caltrack/internal/catalog"
	"github.com/julianstephens/caltrack/internal/cli"
	"github.com/julianstephens/caltrack/internal/constants"
	"github.com/julianstephens/caltrack/internal/docstore"
	"github.com/julianstephens/caltrack/internal/models"
)

// activeUserID returns "" when signed out so listing still shows built-ins
func activeUserID(ctx *cli.Context) string {
	u, ok := ctx.Store.GetActiveUser()
	if !ok {
		return ""
	}
	return u.ID
}

type ListCmd struct {
	Category string `help:"Category filter (all, fruits, proteins, dairy, grains, vegetables, beverages, snacks)." default:"all"`
	Search   string `help:"Case-insensitive name filter."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	category, err := models.ParseCategory(c.Category)
	if err != nil {
		return err
	}

	list := catalog.Filter(catalog.FoodsForUser(ctx.Store, activeUserID(ctx)), category, c.Search)
	if len(list) == 0 {
		ctx.Println("No foods match.")
		return nil
	}

	ctx.Title(fmt.Sprintf("%s (%d)", catalog.CategoryLabel(category), len(list)))
	for _, f := range list {
		name := f.Name
		if f.IsCustom() {
			name += " " + cli.MutedStyle.Render("(custom)")
		}
		ctx.Printf("  %-40s %-20s %4d kcal/100g  %s\n", f.ID, catalog.CategoryLabel(f.Category), f.CaloriesPer100g, name)
	}
	return nil
}

type CategoriesCmd struct{}

func (c *CategoriesCmd) Run(ctx *cli.Context) error {
	for _, cat := range constants.Categories {
		ctx.Printf("  %-12s %s\n", cat, catalog.CategoryLabel(cat))
	}
	return nil
}

// AddCmd creates a custom food from flags or a form
type AddCmd struct {
	Name     string `help:"Food name."`
	Calories int    `help:"Calories per 100g." default:"-1"`
	Category string `help:"Food category."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	u, err := ctx.ActiveUser()
	if err != nil {
		return err
	}

	fm := &cli.FoodFormModel{Name: c.Name, Category: constants.CategorySnacks}
	if c.Calories >= 0 {
		fm.Calories = fmt.Sprint(c.Calories)
	}
	if c.Category != "" {
		cat, err := models.ParseCategory(c.Category)
		if err != nil {
			return err
		}
		fm.Category = cat
	}

	if c.Name == "" || c.Calories < 0 {
		if !ctx.Interactive {
			return fmt.Errorf("--name and --calories are required")
		}
		if err := cli.NewFoodForm(fm).Run(); err != nil {
			return err
		}
	}

	food, err := fm.ToFood(docstore.NewCustomFoodID())
	if err != nil {
		return err
	}
	if err := ctx.Store.UpsertUserFood(u.ID, food); err != nil {
		return fmt.Errorf("failed to save food: %w", err)
	}
	ctx.Success("Added %s (%s)", food.Name, food.ID)
	return nil
}

// EditCmd changes a custom food in place
type EditCmd struct {
	ID       string `arg:"" help:"Custom food id."`
	Name     string `help:"New name."`
	Calories int    `help:"New calories per 100g." default:"-1"`
	Category string `help:"New category."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	u, err := ctx.ActiveUser()
	if err != nil {
		return err
	}

	food, ok := catalog.Find(ctx.Store.ListUserFoods(u.ID), c.ID)
	if !ok {
		if strings.HasPrefix(c.ID, constants.CustomFoodIDPrefix) {
			return fmt.Errorf("custom food %s not found", c.ID)
		}
		return fmt.Errorf("only custom foods can be edited: %s", c.ID)
	}

	fm := &cli.FoodFormModel{Name: food.Name, Calories: fmt.Sprint(food.CaloriesPer100g), Category: food.Category}
	flags := false
	if c.Name != "" {
		fm.Name, flags = c.Name, true
	}
	if c.Calories >= 0 {
		fm.Calories, flags = fmt.Sprint(c.Calories), true
	}
	if c.Category != "" {
		cat, err := models.ParseCategory(c.Category)
		if err != nil {
			return err
		}
		fm.Category, flags = cat, true
	}

	if !flags {
		if !ctx.Interactive {
			return fmt.Errorf("nothing to update, pass at least one flag")
		}
		if err := cli.NewFoodForm(fm).Run(); err != nil {
			return err
		}
	}

	updated, err := fm.ToFood(food.ID)
	if err != nil {
		return err
	}
	if err := ctx.Store.UpsertUserFood(u.ID, updated); err != nil {
		return fmt.Errorf("failed to save food: %w", err)
	}
	ctx.Success("Updated %s", updated.Name)
	return nil
}

type DeleteCmd struct {
	ID string `arg:"" help:"Custom food id."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	u, err := ctx.ActiveUser()
	if err != nil {
		return err
	}
	if !strings.HasPrefix(c.ID, constants.CustomFoodIDPrefix) {
		return fmt.Errorf("only custom foods can be deleted: %s", c.ID)
	}
	if err := ctx.Store.RemoveUserFood(u.ID, c.ID); err != nil {
		return fmt.Errorf("failed to delete food: %w", err)
	}
	ctx.Success("Deleted %s", c.ID)
	return nil
}

type FoodCmd struct {
	List       ListCmd       `cmd:"" help:"List built-in and custom foods." default:"1"`
	Add        AddCmd        `cmd:"" help:"Add a custom food."`
	Edit       EditCmd       `cmd:"" help:"Edit a custom food."`
	Delete     DeleteCmd     `cmd:"" help:"Delete a custom food."`
	Categories CategoriesCmd `cmd:"" help:"List food categories."`
}
