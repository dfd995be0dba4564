package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Trigger    TriggerConfig     `yaml:"trigger"`
	Todoist    TodoistConfig     `yaml:"todoist"`
	GitHub     GitHubConfig      `yaml:"github"`
	Blog       BlogConfig        `yaml:"blog"`
	Categories CategoriesConfig  `yaml:"categories"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Trigger.Validate(); err != nil {
		return err
	}
	if err := c.Todoist.Validate(); err != nil {
		return err
	}
	if err := c.GitHub.Validate(); err != nil {
		return err
	}
	return c.Blog.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// TriggerConfig guards the publish endpoints with a shared secret.
type TriggerConfig struct {
	Secret string `yaml:"secret"`
}

// Validate validates the trigger configuration.
func (c *TriggerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Secret, validation.Required),
	)
}

// TodoistConfig holds the task-source configuration.
type TodoistConfig struct {
	BaseURL        string `yaml:"base_url"`
	Token          string `yaml:"token"`
	ProjectID      string `yaml:"project_id"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-call deadline for Todoist requests.
func (c *TodoistConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the Todoist configuration.
func (c *TodoistConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Token, validation.Required),
		validation.Field(&c.ProjectID, validation.Required),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1)),
	)
}

// GitHubConfig holds the content-host configuration.
type GitHubConfig struct {
	BaseURL        string          `yaml:"base_url"`
	Token          string          `yaml:"token"`
	Owner          string          `yaml:"owner"`
	Repo           string          `yaml:"repo"`
	Branch         string          `yaml:"branch"`
	ContentDir     string          `yaml:"content_dir"`
	UserAgent      string          `yaml:"user_agent"`
	CommitMessage  string          `yaml:"commit_message"`
	Committer      CommitterConfig `yaml:"committer"`
	TimeoutSeconds int             `yaml:"timeout_seconds"`
}

// Timeout returns the per-call deadline for GitHub requests.
func (c *GitHubConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the GitHub configuration.
func (c *GitHubConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Token, validation.Required),
		validation.Field(&c.Owner, validation.Required),
		validation.Field(&c.Repo, validation.Required),
		validation.Field(&c.Branch, validation.Required),
		validation.Field(&c.ContentDir, validation.Required),
		validation.Field(&c.UserAgent, validation.Required),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1)),
	); err != nil {
		return err
	}
	return c.Committer.Validate()
}

// CommitterConfig is the identity stamped on published commits.
type CommitterConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// Validate validates the committer identity.
func (c *CommitterConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Email, validation.Required),
	)
}

// BlogConfig holds the public blog addresses used for backlinks.
type BlogConfig struct {
	// BaseURL is the URL of the blog section backlinks point into,
	// e.g. https://blog.victorprouff.fr/en-vracs
	BaseURL string `yaml:"base_url"`
}

// Validate validates the blog configuration.
func (c *BlogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required),
	)
}

// CategoriesConfig locates the section-to-category mapping file. An empty
// path selects the built-in table.
type CategoriesConfig struct {
	Path string `yaml:"path"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Todoist: TodoistConfig{
			ProjectID:      "2332182173",
			TimeoutSeconds: 10,
		},
		GitHub: GitHubConfig{
			Owner:          "victorprouff",
			Repo:           "blog.victorprouff.fr",
			Branch:         "main",
			ContentDir:     "content/en-vracs",
			UserAgent:      "envrac-publisher",
			CommitMessage:  "Nouvel article En Vrac",
			TimeoutSeconds: 15,
		},
		Blog: BlogConfig{
			BaseURL: "https://blog.victorprouff.fr/en-vracs",
		},
		Categories: CategoriesConfig{
			Path: "config/categories.yaml",
		},
	}
}
