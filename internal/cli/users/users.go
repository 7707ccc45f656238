package users

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/caltrack/internal/cli"
	"github.com/julianstephens/caltrack/internal/models"
)

// LoginCmd selects an existing user by name or creates one
type LoginCmd struct {
	Name string `arg:"" optional:"" help:"User name (prompted when omitted)."`
	Goal int    `help:"Daily calorie goal for a new user."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		if !ctx.Interactive {
			return fmt.Errorf("user name is required")
		}
		fm := &cli.ProfileFormModel{}
		if err := cli.NewProfileForm(fm).Run(); err != nil {
			return err
		}
		return c.create(ctx, fm)
	}

	if existing, ok := ctx.Store.LookupByName(name); ok {
		if err := ctx.Store.SaveUser(existing); err != nil {
			return fmt.Errorf("failed to sign in: %w", err)
		}
		ctx.Success("Welcome back, %s", existing.Name)
		return nil
	}

	if ctx.Store.NameExists(name) {
		return fmt.Errorf("user %q is listed but their profile could not be read; run 'caltrack doctor'", name)
	}

	fm := &cli.ProfileFormModel{Name: name}
	if c.Goal > 0 {
		fm.Goal = fmt.Sprint(c.Goal)
	}
	if ctx.Interactive {
		if err := cli.NewProfileForm(fm).Run(); err != nil {
			return err
		}
	}
	return c.create(ctx, fm)
}

func (c *LoginCmd) create(ctx *cli.Context, fm *cli.ProfileFormModel) error {
	u := models.User{ID: uuid.New().String()}
	if err := fm.ApplyTo(&u); err != nil {
		return err
	}
	if err := ctx.Store.SaveUser(u); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	ctx.Success("Created user %s", u.Name)
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	u, err := ctx.ActiveUser()
	if err != nil {
		return err
	}

	ctx.Title(u.Name)
	ctx.Field("ID", u.ID)
	if u.Age > 0 {
		ctx.Field("Age", u.Age)
	}
	if u.Sex != "" {
		ctx.Field("Sex", u.Sex)
	}
	if u.WeightKg > 0 {
		ctx.Field("Weight", fmt.Sprintf("%.1f kg", u.WeightKg))
	}
	if u.HeightCm > 0 {
		ctx.Field("Height", fmt.Sprintf("%.0f cm", u.HeightCm))
	}
	if bmi, err := u.BMI(); err == nil {
		ctx.Field("BMI", fmt.Sprintf("%.1f (%s)", bmi, models.BMICategory(bmi)))
	}
	if u.ActivityLevel != "" {
		ctx.Field("Activity", u.ActivityLevel)
	}
	if u.DailyCalorieGoal > 0 {
		ctx.Field("Daily goal", fmt.Sprintf("%d kcal", u.DailyCalorieGoal))
	}
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	u, err := ctx.ActiveUser()
	if err != nil {
		return err
	}
	if err := ctx.Store.ClearActiveUser(); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	ctx.Success("Signed out %s", u.Name)
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	res := ctx.Store.Index()
	if res.Err != nil {
		return fmt.Errorf("failed to read user index: %w", res.Err)
	}
	if len(res.Value) == 0 {
		ctx.Println("No users yet. Create one with 'caltrack user login <name>'.")
		return nil
	}

	active, _ := ctx.Store.GetActiveUser()
	ctx.Title(fmt.Sprintf("Users (%d)", len(res.Value)))
	for _, e := range res.Value {
		marker := "  "
		if e.ID == active.ID {
			marker = "* "
		}
		ctx.Printf("%s%-20s %s\n", marker, e.Name, cli.MutedStyle.Render(
			fmt.Sprintf("created %s, last seen %s", e.CreatedAt.Local().Format("2006-01-02"), e.LastAccess.Local().Format("2006-01-02 15:04"))))
	}
	return nil
}

// ExistsCmd exits with an error when no user has the given name
type ExistsCmd struct {
	Name string `arg:"" help:"User name to look up (case-insensitive)."`
}

func (c *ExistsCmd) Run(ctx *cli.Context) error {
	if !ctx.Store.NameExists(c.Name) {
		return fmt.Errorf("no user named %q", c.Name)
	}
	ctx.Printf("User %q exists\n", c.Name)
	return nil
}

// ProfileCmd updates the active user's profile from flags or a form
type ProfileCmd struct {
	Name     string  `help:"New display name."`
	Age      int     `help:"Age in years."`
	Sex      string  `help:"Sex (female or male)."`
	Weight   float64 `help:"Weight in kilograms."`
	Height   float64 `help:"Height in centimeters."`
	Activity string  `help:"Activity level (sedentary, light, moderate, active, very_active)."`
	Goal     int     `help:"Daily calorie goal."`
}

func (c *ProfileCmd) hasFlags() bool {
	return c.Name != "" || c.Age != 0 || c.Sex != "" || c.Weight != 0 || c.Height != 0 || c.Activity != "" || c.Goal != 0
}

func (c *ProfileCmd) Run(ctx *cli.Context) error {
	u, err := ctx.ActiveUser()
	if err != nil {
		return err
	}

	if c.hasFlags() {
		if c.Name != "" {
			u.Name = c.Name
		}
		if c.Age != 0 {
			u.Age = c.Age
		}
		if c.Sex != "" {
			if c.Sex != "female" && c.Sex != "male" {
				return fmt.Errorf("invalid sex %q, use female or male", c.Sex)
			}
			u.Sex = c.Sex
		}
		if c.Weight != 0 {
			u.WeightKg = c.Weight
		}
		if c.Height != 0 {
			u.HeightCm = c.Height
		}
		if c.Activity != "" {
			if !cli.IsActivityLevel(c.Activity) {
				return fmt.Errorf("invalid activity level %q", c.Activity)
			}
			u.ActivityLevel = c.Activity
		}
		if c.Goal != 0 {
			u.DailyCalorieGoal = c.Goal
		}
		if err := u.Validate(); err != nil {
			return err
		}
	} else {
		if !ctx.Interactive {
			return fmt.Errorf("nothing to update, pass at least one flag")
		}
		fm := cli.ProfileFormFromUser(u)
		if err := cli.NewProfileForm(fm).Run(); err != nil {
			return err
		}
		if err := fm.ApplyTo(&u); err != nil {
			return err
		}
	}

	if err := ctx.Store.SaveUser(u); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	ctx.Success("Profile updated")
	return nil
}

type UserCmd struct {
	Login   LoginCmd   `cmd:"" help:"Sign in as a user, creating it if needed."`
	Whoami  WhoamiCmd  `cmd:"" help:"Show the active user."`
	Logout  LogoutCmd  `cmd:"" help:"Sign out the active user."`
	List    ListCmd    `cmd:"" help:"List all known users."`
	Exists  ExistsCmd  `cmd:"" help:"Check whether a user name is taken."`
	Profile ProfileCmd `cmd:"" help:"Update the active user's profile."`
}
