package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"breathadmin/internal/config"
	"breathadmin/internal/content"
	"breathadmin/internal/dashboard"
	"breathadmin/internal/env"
	"breathadmin/internal/gateway"
	"breathadmin/internal/notify"
	"breathadmin/internal/probe"
	"breathadmin/pkg/models"

	"github.com/sirupsen/logrus"
)

// sobctl is a small operator CLI for the School of Breath backends. It
// reuses the same config and gateway clients as the admin server, so a
// blast sent here looks exactly like one sent from the console.
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)

	cfg, err := config.LoadConfig("./config.toml")
	if err != nil {
		fatal("load configuration: %v", err)
	}

	envManager, err := env.NewManager(&cfg.Backends, logger)
	if err != nil {
		fatal("environment manager: %v", err)
	}
	defer envManager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "env":
		runEnv(envManager, os.Args[2:])
	case "cron":
		runCron(ctx, cfg, envManager, logger, os.Args[2:])
	case "blast":
		runBlast(ctx, cfg, envManager, logger, os.Args[2:])
	case "dashboard":
		runDashboard(ctx, cfg, envManager, logger)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: sobctl <command> [flags]

commands:
  env [dev|prod]    show or switch the backend environment
  cron <breathing|course-reminders> [-force]
                    trigger a scheduled campaign now
  blast -title T -body B -link L [-segment S] [-type T]
                    send a new-release notification blast
  dashboard         print the aggregated dashboard snapshot as JSON`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "sobctl: "+format+"\n", args...)
	os.Exit(1)
}

func runEnv(envManager *env.Manager, args []string) {
	if len(args) == 0 {
		fmt.Println(envManager.Current())
		return
	}

	target := env.Environment(args[0])
	if !target.Valid() {
		fatal("environment must be dev or prod, got %q", args[0])
	}
	if err := envManager.Switch(target); err != nil {
		fatal("switch environment: %v", err)
	}
	fmt.Printf("switched to %s\n", target)
}

func runCron(ctx context.Context, cfg *config.Config, envManager *env.Manager, logger *logrus.Logger, args []string) {
	if len(args) == 0 {
		fatal("cron requires a campaign name: breathing or course-reminders")
	}

	fs := flag.NewFlagSet("cron", flag.ExitOnError)
	force := fs.Bool("force", false, "run even outside the scheduled window")
	fs.Parse(args[1:])

	console := newConsole(cfg, envManager, logger)
	var err error
	switch args[0] {
	case "breathing":
		err = console.RunBreathingSessionsCron(ctx, *force)
	case "course-reminders":
		err = console.RunCourseRemindersCron(ctx, *force)
	default:
		fatal("unknown campaign %q", args[0])
	}
	if err != nil {
		fatal("trigger %s: %v", args[0], err)
	}
	fmt.Printf("%s campaign triggered\n", args[0])
}

func runBlast(ctx context.Context, cfg *config.Config, envManager *env.Manager, logger *logrus.Logger, args []string) {
	fs := flag.NewFlagSet("blast", flag.ExitOnError)
	title := fs.String("title", "", "notification title")
	body := fs.String("body", "", "notification body")
	link := fs.String("link", "", "deep link, fully resolved")
	segment := fs.String("segment", string(models.SegmentAllUsers), "target segment")
	contentType := fs.String("type", string(models.ReleaseOther), "content type")
	fs.Parse(args)

	blast := notify.DefaultBlast()
	blast.Title = *title
	blast.Body = *body
	blast.DeepLink = *link
	blast.TargetSegment = models.NewReleaseTargetSegment(*segment)
	blast.ContentType = models.NewReleaseContentType(*contentType)

	console := newConsole(cfg, envManager, logger)
	summary, err := console.SendBlast(ctx, blast)
	if err != nil {
		fatal("send blast: %v", err)
	}
	fmt.Println(summary)
}

func runDashboard(ctx context.Context, cfg *config.Config, envManager *env.Manager, logger *logrus.Logger) {
	timeout := 30 * time.Second
	contentClient := gateway.NewContentClient(envManager, timeout, logger)
	coursesClient := gateway.NewCoursesClient(envManager, timeout, logger)
	notificationsClient := gateway.NewNotificationsClient(envManager, cfg.Notifications.AdminKey, timeout, logger)

	prober := probe.NewProber(cfg, logger)
	contentSvc := content.NewService(contentClient, prober, logger)
	dashboardSvc := dashboard.NewService(contentSvc, coursesClient, notificationsClient, logger)

	data, err := dashboardSvc.FetchDashboardData(ctx)
	if err != nil {
		fatal("fetch dashboard: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		fatal("encode snapshot: %v", err)
	}
}

func newConsole(cfg *config.Config, envManager *env.Manager, logger *logrus.Logger) *notify.Console {
	client := gateway.NewNotificationsClient(envManager, cfg.Notifications.AdminKey, 30*time.Second, logger)
	return notify.NewConsole(client, logger)
}
