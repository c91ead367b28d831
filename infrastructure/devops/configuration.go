package devops

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// AppConfig is the deployed service configuration, stored as YAML in a
// single SSM parameter. Local runs bypass SSM via environment variables.
type AppConfig struct {
	DSN          string `yaml:"dsn"`
	SelfieBucket string `yaml:"selfie_bucket"`
	AWSRegion    string `yaml:"aws_region"`
	JWTSecret    string `yaml:"jwt_secret"`
	SlackToken   string `yaml:"slack_token"`
	SlackChannel string `yaml:"slack_channel"`
	HRMailFrom   string `yaml:"hr_mail_from"`
	HRMailTo     string `yaml:"hr_mail_to"`
}

var (
	once    sync.Once
	appCfg  AppConfig
	loadErr error
)

// LoadAppConfig reads the "hadirin" SSM parameter once per process. When the
// parameter name is overridden to "env", config comes from the environment
// instead (local development).
func LoadAppConfig(ctx context.Context) (AppConfig, error) {
	once.Do(func() {
		paramName := os.Getenv("APP_CONFIG_PARAM")
		if paramName == "" {
			paramName = "hadirin"
		}
		if paramName == "env" {
			appCfg = fromEnv()
			return
		}

		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			loadErr = fmt.Errorf("load aws config: %w", err)
			return
		}

		client := ssm.NewFromConfig(cfg)

		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(paramName),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			loadErr = fmt.Errorf("get parameter: %w", err)
			return
		}

		var parsed AppConfig
		if err := yaml.Unmarshal([]byte(*out.Parameter.Value), &parsed); err != nil {
			loadErr = fmt.Errorf("unmarshal yaml: %w", err)
			return
		}

		appCfg = parsed
	})

	return appCfg, loadErr
}

func fromEnv() AppConfig {
	return AppConfig{
		DSN:          os.Getenv("DSN"),
		SelfieBucket: os.Getenv("SELFIE_BUCKET"),
		AWSRegion:    os.Getenv("AWS_REGION"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		SlackToken:   os.Getenv("SLACK_BOT_TOKEN"),
		SlackChannel: os.Getenv("SLACK_ERROR_CHANNEL"),
		HRMailFrom:   os.Getenv("HR_MAIL_FROM"),
		HRMailTo:     os.Getenv("HR_MAIL_TO"),
	}
}
