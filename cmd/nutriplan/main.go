package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"nutriplan/internal/app"
	"nutriplan/internal/config"
	"nutriplan/internal/energy"
	"nutriplan/internal/planner"
)

// profileFlags registers the shared profile/goal flags on a flag set.
type profileFlags struct {
	age      *int
	sex      *string
	weight   *float64
	height   *float64
	activity *string
	goal     *string
	pace     *string
}

func addProfileFlags(fs *flag.FlagSet) profileFlags {
	return profileFlags{
		age:      fs.Int("age", 0, "Age in years"),
		sex:      fs.String("sex", "", "Sex: male or female"),
		weight:   fs.Float64("weight", 0, "Weight in kg"),
		height:   fs.Float64("height", 0, "Height in cm"),
		activity: fs.String("activity", "moderate", "Activity level: sedentary, light, moderate, active, very_active"),
		goal:     fs.String("goal", "maintain", "Goal: lose_weight, maintain, build_muscle, recomposition"),
		pace:     fs.String("pace", "moderate", "Pace: slow, moderate, aggressive"),
	}
}

func (p profileFlags) profile() energy.MetabolicProfile {
	return energy.MetabolicProfile{
		Age:      *p.age,
		Sex:      energy.Sex(*p.sex),
		WeightKG: *p.weight,
		HeightCM: *p.height,
		Activity: energy.ActivityLevel(*p.activity),
	}
}

func (p profileFlags) goalAdjustment() energy.GoalAdjustment {
	return energy.GoalAdjustment{
		Goal: energy.GoalType(*p.goal),
		Pace: energy.Pace(*p.pace),
	}
}

func main() {
	ctx := context.Background()

	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if os.Args[1] == "targets" {
		// targets is pure computation and needs no database.
		runTargets(os.Args[2:])
		return
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	switch os.Args[1] {
	case "plan":
		runPlan(ctx, application, os.Args[2:], false)
	case "regenerate":
		runPlan(ctx, application, os.Args[2:], true)
	case "suggest":
		fs := flag.NewFlagSet("suggest", flag.ExitOnError)
		date := fs.String("date", "", "Date (YYYY-MM-DD)")
		slot := fs.String("slot", "lunch", "Slot name")
		fs.Parse(os.Args[2:])

		if *date == "" {
			log.Fatal("suggest requires -date")
		}
		if err := application.SuggestMeal(ctx, *date, *slot); err != nil {
			log.Fatalf("Suggestion failed: %v", err)
		}
	case "search":
		fs := flag.NewFlagSet("search", flag.ExitOnError)
		query := fs.String("q", "", "Free-text query over recipe names and descriptions")
		slot := fs.String("slot", "", "Optional slot context (does not narrow results)")
		fs.Parse(os.Args[2:])

		if *query == "" {
			log.Fatal("search requires -q")
		}
		if err := application.SearchRecipes(ctx, *query, *slot); err != nil {
			log.Fatalf("Search failed: %v", err)
		}
	case "import":
		fs := flag.NewFlagSet("import", flag.ExitOnError)
		url := fs.String("url", "", "Recipe page URL")
		fs.Parse(os.Args[2:])

		if *url == "" {
			log.Fatal("import requires -url")
		}
		if err := application.ImportRecipe(ctx, *url); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
	case "seed":
		fs := flag.NewFlagSet("seed", flag.ExitOnError)
		file := fs.String("file", "", "JSON file of corpus recipes")
		fs.Parse(os.Args[2:])

		if *file == "" {
			log.Fatal("seed requires -file")
		}
		if err := application.SeedRecipes(ctx, *file); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runTargets(args []string) {
	fs := flag.NewFlagSet("targets", flag.ExitOnError)
	pf := addProfileFlags(fs)
	fs.Parse(args)

	targets, err := energy.CalculateTargets(pf.profile(), pf.goalAdjustment())
	if err != nil {
		log.Fatalf("Failed to calculate targets: %v", err)
	}

	fmt.Printf("BMR: %d kcal  TDEE: %d kcal  Daily: %d kcal (%+d)\n",
		targets.BMR, targets.TDEE, targets.DailyCalories, targets.CalorieAdjustment)
	fmt.Printf("Protein: %dg  Carbs: %dg  Fat: %dg\n",
		targets.ProteinG, targets.CarbsG, targets.FatG)
	if targets.CarbsClamped {
		fmt.Println("Note: carbohydrate grams were clamped to zero for this profile.")
	}
}

func runPlan(ctx context.Context, application *app.App, args []string, regenerate bool) {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	pf := addProfileFlags(fs)
	user := fs.String("user", "", "User ID (defaults to the configured user)")
	date := fs.String("date", "", "Date (YYYY-MM-DD)")
	meals := fs.Int("meals", 3, "Meals per day (3-5)")
	fasting := fs.String("fasting", "", "Comma-separated fasting slots (overrides -meals)")
	fs.Parse(args)

	if *date == "" {
		log.Fatal("plan requires -date")
	}

	req := planner.GenerateRequest{
		UserID:      *user,
		Date:        *date,
		Profile:     pf.profile(),
		Goal:        pf.goalAdjustment(),
		MealsPerDay: *meals,
	}
	if req.UserID == "" {
		req.UserID = application.DefaultUserID()
	}
	if *fasting != "" {
		for _, slot := range strings.Split(*fasting, ",") {
			req.FastingSlots = append(req.FastingSlots, strings.TrimSpace(slot))
		}
	}

	if err := application.GeneratePlan(ctx, req, regenerate); err != nil {
		log.Fatalf("Plan generation failed: %v", err)
	}
}

func printUsage() {
	fmt.Println("Usage: nutriplan <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  targets      Compute daily energy and macro targets for a profile")
	fmt.Println("  plan         Generate (or return the stored) daily plan for a date")
	fmt.Println("  regenerate   Discard the stored plan for a date and generate a new one")
	fmt.Println("  suggest      Preview the deterministic meal suggestion for a date and slot")
	fmt.Println("  search       Find corpus recipes by free text")
	fmt.Println("  import       Clip a recipe page into the corpus")
	fmt.Println("  seed         Load corpus recipes from a JSON file")
}
