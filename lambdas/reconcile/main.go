package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"hadirin.app/hadirin/attendance/core"
	"hadirin.app/hadirin/attendance/model"
	"hadirin.app/hadirin/infrastructure/communication"
	"hadirin.app/hadirin/infrastructure/devops"
	"hadirin.app/hadirin/utils"
)

// Runs on a daily schedule. Attendance rows that lost their location insert
// (the orphaned-write case) are a repairable inconsistency: they must be
// reported to HR, not silently left behind.

type Event struct {
	// Date overrides the day to scan, yyyy-MM-dd. Empty means today.
	Date string `json:"date"`
}

func handler(ctx context.Context, event Event) error {
	cfg, err := devops.LoadAppConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	date := event.Date
	if date == "" {
		date = utils.DateOf(utils.JakartaNow())
	} else if _, err := utils.ParseDate(date); err != nil {
		return err
	}

	db, err := core.ConnectDB(cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	repo := core.NewGormRepository(db)
	orphans, err := repo.FindMissingLocations(ctx, date)
	if err != nil {
		return err
	}

	fmt.Printf("Scanned %s: %d attendance rows without location\n", date, len(orphans))
	if len(orphans) == 0 {
		return nil
	}

	body := reportBody(date, orphans)

	if err := sendMail(ctx, cfg, date, body); err != nil {
		// Keep going; the Slack ping below may still land.
		log.Printf("failed to mail orphan report: %v", err)
	}

	if cfg.SlackToken != "" {
		slack := communication.NewSlack(cfg.SlackToken, communication.SlackOption{
			ErrorChannelID: cfg.SlackChannel,
		})
		if err := slack.Error(body); err != nil {
			log.Printf("failed to post orphan report to Slack: %v", err)
		}
	}

	return nil
}

func reportBody(date string, orphans []model.AttendanceRecord) string {
	lines := utils.Map(orphans, func(rec model.AttendanceRecord) string {
		return fmt.Sprintf("attendance %d, user %s, checked in %s", rec.ID, rec.UserID, rec.CheckIn)
	})
	return fmt.Sprintf("Attendance records on %s missing their location row:\n%s", date, strings.Join(lines, "\n"))
}

func sendMail(ctx context.Context, cfg devops.AppConfig, date, body string) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	client := ses.NewFromConfig(awsCfg)

	_, err = client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(cfg.HRMailFrom),
		Destination: &types.Destination{
			ToAddresses: []string{cfg.HRMailTo},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(fmt.Sprintf("Orphaned attendance records for %s", date))},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	return err
}

func main() {
	lambda.Start(handler)
}
