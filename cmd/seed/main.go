// Package main seeds a running instance of the service with demo data
// through its public API. It is idempotent: users are matched by username
// and seeding is skipped when the demo project already exists. Pass -reset
// to wipe all data first.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/liskovpm/scrum-service/internal/adapters/apiclient"
	"github.com/liskovpm/scrum-service/internal/adapters/http/dto"
	"github.com/liskovpm/scrum-service/internal/platform/config"
	"github.com/liskovpm/scrum-service/internal/platform/httpclient"
	"github.com/liskovpm/scrum-service/internal/platform/logging"
)

const (
	seedTimeout = 2 * time.Minute

	demoProjectName = "Phoenix Launch"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	reset := flag.Bool("reset", false, "wipe all existing data before seeding")
	apiURL := flag.String("api", "", "base URL of the API (overrides the configured client base URL)")
	flag.Parse()

	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *apiURL != "" {
		cfg.Client.BaseURL = *apiURL
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	client := apiclient.New(httpclient.New(&cfg.Client, "seed-api", nil, logger), logger)

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	if *reset {
		logger.Info("resetting all data")
		if err := client.Reset(ctx); err != nil {
			return fmt.Errorf("resetting data: %w", err)
		}
	}

	s := &seeder{client: client, logger: logger}
	if err := s.seed(ctx); err != nil {
		return err
	}

	logger.Info("seeding complete")
	return nil
}

type seeder struct {
	client *apiclient.Client
	logger *slog.Logger
}

// team holds the user IDs the demo project is built around.
type team struct {
	po   int64
	sm   int64
	devs []int64
}

func (s *seeder) seed(ctx context.Context) error {
	tm, err := s.ensureUsers(ctx)
	if err != nil {
		return fmt.Errorf("ensuring users: %w", err)
	}

	exists, err := s.projectExists(ctx, tm.po)
	if err != nil {
		return fmt.Errorf("checking for existing project: %w", err)
	}
	if exists {
		s.logger.Info("demo project already present, skipping",
			slog.String("project", demoProjectName))
		return nil
	}

	return s.seedProject(ctx, tm)
}

// seedUsers is the fixed roster the demo data is built from.
var seedUsers = []dto.CreateUserRequest{
	{Username: "paula", Email: "paula@example.com", FirstName: "Paula", LastName: "Owens"},
	{Username: "sam", Email: "sam@example.com", FirstName: "Sam", LastName: "Masters"},
	{Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Nguyen"},
	{Username: "bob", Email: "bob@example.com", FirstName: "Bob", LastName: "Keller"},
	{Username: "carol", Email: "carol@example.com", FirstName: "Carol", LastName: "Diaz"},
	{Username: "dana", Email: "dana@example.com", FirstName: "Dana", LastName: "Petrov"},
}

func (s *seeder) ensureUsers(ctx context.Context) (*team, error) {
	existing, err := s.client.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	byLogin := make(map[string]int64, len(existing.Users))
	for _, u := range existing.Users {
		byLogin[u.Username] = u.ID
	}

	for _, req := range seedUsers {
		if _, ok := byLogin[req.Username]; ok {
			continue
		}
		created, err := s.client.CreateUser(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("creating user %s: %w", req.Username, err)
		}
		byLogin[req.Username] = created.ID
		s.logger.Info("created user",
			slog.String("username", req.Username), slog.Int64("id", created.ID))
	}

	return &team{
		po:   byLogin["paula"],
		sm:   byLogin["sam"],
		devs: []int64{byLogin["alice"], byLogin["bob"], byLogin["carol"], byLogin["dana"]},
	}, nil
}

func (s *seeder) projectExists(ctx context.Context, actorID int64) (bool, error) {
	projects, err := s.client.ListProjects(ctx, actorID)
	if err != nil {
		return false, err
	}
	for _, p := range projects.Projects {
		if p.Name == demoProjectName {
			return true, nil
		}
	}
	return false, nil
}

func (s *seeder) seedProject(ctx context.Context, tm *team) error {
	monday := nextMonday(time.Now())
	date := func(daysFromStart int) string {
		return monday.AddDate(0, 0, daysFromStart).Format("2006-01-02")
	}

	proj, err := s.client.CreateProject(ctx, tm.po, dto.CreateProjectRequest{
		Name:           demoProjectName,
		Description:    "Rebuild of the customer-facing portal.",
		Status:         "IN_PROGRESS",
		StartDate:      date(0),
		ProductOwnerID: tm.po,
		ScrumMasterID:  tm.sm,
		TeamMemberIDs:  tm.devs,
	})
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	s.logger.Info("created project", slog.Int64("id", proj.ID), slog.String("name", proj.Name))

	sprint1, err := s.client.CreateSprint(ctx, tm.sm, proj.ID, dto.CreateSprintRequest{
		Number:    1,
		Name:      "Sprint 1",
		Goal:      "Walking skeleton: login and project list.",
		StartDate: date(0),
		EndDate:   date(11),
	})
	if err != nil {
		return fmt.Errorf("creating sprint 1: %w", err)
	}
	if _, err := s.client.TransitionSprint(ctx, tm.sm, sprint1.ID, "ACTIVE"); err != nil {
		return fmt.Errorf("activating sprint 1: %w", err)
	}

	sprint2, err := s.client.CreateSprint(ctx, tm.sm, proj.ID, dto.CreateSprintRequest{
		Number:    2,
		Name:      "Sprint 2",
		Goal:      "Board view and notifications.",
		StartDate: date(14),
		EndDate:   date(25),
	})
	if err != nil {
		return fmt.Errorf("creating sprint 2: %w", err)
	}

	if err := s.seedStories(ctx, tm, proj.ID, sprint1.ID, sprint2.ID); err != nil {
		return err
	}
	return nil
}

func (s *seeder) seedStories(ctx context.Context, tm *team, projectID, sprint1ID, sprint2ID int64) error {
	points := func(n int) *int { return &n }

	type storySeed struct {
		req      dto.CreateStoryRequest
		sprintID *int64
		assignee *int64
		status   []string
		tasks    []dto.CreateTaskRequest
		comments []string
	}

	hours := func(h float64) *float64 { return &h }

	seeds := []storySeed{
		{
			req: dto.CreateStoryRequest{
				Title:              "Log in with email and password",
				Description:        "As a user I want to sign in so that I can see my work.",
				AcceptanceCriteria: "Valid credentials open the dashboard; invalid ones show an error.",
				StoryPoints:        points(5),
				Priority:           "HIGH",
			},
			sprintID: &sprint1ID,
			assignee: &tm.devs[0],
			status:   []string{"TODO", "IN_PROGRESS", "IN_REVIEW"},
			tasks: []dto.CreateTaskRequest{
				{Title: "Build the login form", EstimatedHours: hours(4)},
				{Title: "Wire session handling", EstimatedHours: hours(6)},
			},
			comments: []string{"Remember the lockout rule after five failed attempts."},
		},
		{
			req: dto.CreateStoryRequest{
				Title:              "See the list of my projects",
				Description:        "As a user I want a project overview so that I can pick where to work.",
				AcceptanceCriteria: "Only projects I belong to are shown.",
				StoryPoints:        points(3),
				Priority:           "HIGH",
			},
			sprintID: &sprint1ID,
			assignee: &tm.devs[1],
			status:   []string{"TODO", "IN_PROGRESS"},
			tasks: []dto.CreateTaskRequest{
				{Title: "Project list endpoint integration", EstimatedHours: hours(3)},
			},
		},
		{
			req: dto.CreateStoryRequest{
				Title:       "Drag stories across the sprint board",
				Description: "As a developer I want to move a story between columns.",
				StoryPoints: points(8),
				Priority:    "MEDIUM",
			},
			sprintID: &sprint2ID,
			assignee: &tm.devs[2],
		},
		{
			req: dto.CreateStoryRequest{
				Title:       "Email me when a story is assigned to me",
				Description: "As a developer I want a notification on assignment.",
				Priority:    "LOW",
			},
			comments: []string{"Needs a decision on the mail provider first."},
		},
	}

	for _, seed := range seeds {
		st, err := s.client.CreateStory(ctx, tm.po, projectID, seed.req)
		if err != nil {
			return fmt.Errorf("creating story %q: %w", seed.req.Title, err)
		}

		if seed.sprintID != nil {
			if _, err := s.client.MoveStoryToSprint(ctx, tm.sm, st.ID, seed.sprintID); err != nil {
				return fmt.Errorf("moving story %q to sprint: %w", seed.req.Title, err)
			}
		}
		if seed.assignee != nil {
			if _, err := s.client.AssignStory(ctx, tm.sm, st.ID, seed.assignee); err != nil {
				return fmt.Errorf("assigning story %q: %w", seed.req.Title, err)
			}
		}
		for _, status := range seed.status {
			if _, err := s.client.TransitionStory(ctx, tm.sm, st.ID, status); err != nil {
				return fmt.Errorf("transitioning story %q to %s: %w", seed.req.Title, status, err)
			}
		}

		for i, taskReq := range seed.tasks {
			task, err := s.client.CreateTask(ctx, tm.sm, st.ID, taskReq)
			if err != nil {
				return fmt.Errorf("creating task %q: %w", taskReq.Title, err)
			}
			// Mark the first task of an in-flight story as started.
			if i == 0 && len(seed.status) > 1 {
				if _, err := s.client.TransitionTask(ctx, tm.sm, task.ID, "IN_PROGRESS"); err != nil {
					return fmt.Errorf("starting task %q: %w", taskReq.Title, err)
				}
			}
		}

		for _, content := range seed.comments {
			if _, err := s.client.AddComment(ctx, tm.po, st.ID, content); err != nil {
				return fmt.Errorf("commenting on story %q: %w", seed.req.Title, err)
			}
		}

		s.logger.Info("created story", slog.Int64("id", st.ID), slog.String("title", st.Title))
	}

	return nil
}

// nextMonday returns the first Monday on or after t, at midnight UTC.
func nextMonday(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	for t.Weekday() != time.Monday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
