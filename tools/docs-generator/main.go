package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
	"strings"

	"github.com/pkg/errors"

	"github.com/batchcorp/changestream/options"
)

var (
	typeFlag   *string
	outputFlag *string

	validTypes  = []string{"env"}
	validOutput = []string{"markdown"}
)

func main() {
	if err := parseFlags(); err != nil {
		log.Fatalf("error: %s", err)
	}

	switch *typeFlag {
	case "env":
		if err := generateEnvDocs(os.Stdout, *outputFlag); err != nil {
			log.Fatalf("unable to generate env docs: %s", err)
		}
	default:
		log.Fatalf("unknown cmd '%s'", *typeFlag)
	}
}

type KongTag struct {
	Var      string
	Help     string
	Default  string
	Required bool
}

type Section struct {
	Name string
	Tags []*KongTag
}

func generateEnvDocs(w io.Writer, outputType string) error {
	if outputType != "markdown" {
		return fmt.Errorf("'%s' output type is not supported", outputType)
	}

	sections := []*Section{
		{Name: "Global", Tags: collectTags(reflect.TypeOf(options.CLIOptions{}), false)},
		{Name: "Serve", Tags: collectTags(reflect.TypeOf(options.ServeOptions{}), false)},
		{Name: "MongoDB", Tags: collectTags(reflect.TypeOf(options.MongoDBOptions{}), true)},
		{Name: "Centrifugo", Tags: collectTags(reflect.TypeOf(options.CentrifugoOptions{}), true)},
		{Name: "Redis PubSub", Tags: collectTags(reflect.TypeOf(options.RedisPubSubOptions{}), true)},
		{Name: "NATS", Tags: collectTags(reflect.TypeOf(options.NatsOptions{}), true)},
		{Name: "Healthcheck", Tags: collectTags(reflect.TypeOf(options.HealthcheckOptions{}), true)},
	}

	fmt.Fprintf(w, "# Available environment variables\n")

	for _, s := range sections {
		if len(s.Tags) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n## %s\n\n", s.Name)
		displayMarkdown(w, s.Tags)
	}

	return nil
}

func displayMarkdown(w io.Writer, tags []*KongTag) {
	fmt.Fprintf(w, "| **Environment Variable** | **Description** | **Default** | **Required** |\n")
	fmt.Fprintf(w, "| ------------------------ | --------------- | ----------- | ------------ |\n")

	for _, v := range tags {
		requiredStr := fmt.Sprint(v.Required)

		if v.Required {
			requiredStr = "**" + requiredStr + "**"
		}

		fmt.Fprintf(w, "| %s | %s | %s | %v |\n", v.Var, v.Help, v.Default, requiredStr)
	}
}

// collectTags returns the env-backed fields of t. Commands and embedded
// option groups get their own section, so they are skipped unless nested
// is set.
func collectTags(t reflect.Type, nested bool) []*KongTag {
	tags := make([]*KongTag, 0)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if _, ok := field.Tag.Lookup("cmd"); ok {
			continue
		}

		if _, ok := field.Tag.Lookup("embed"); ok {
			if nested {
				tags = append(tags, collectTags(field.Type, true)...)
			}

			continue
		}

		kongTag := parseKongTag(field.Tag)

		// Skip if option does not expose an env var
		if kongTag.Var == "" {
			continue
		}

		tags = append(tags, kongTag)
	}

	return tags
}

func parseKongTag(tag reflect.StructTag) *KongTag {
	_, required := tag.Lookup("required")

	return &KongTag{
		Var:      tag.Get("env"),
		Help:     strings.ReplaceAll(tag.Get("help"), "|", "\\|"),
		Default:  tag.Get("default"),
		Required: required,
	}
}

func parseFlags() error {
	typeFlag = flag.String("type", "env", "What type of docs to generate (options: env)")
	outputFlag = flag.String("output", "markdown", "What format to use for output (options: markdown)")

	flag.Parse()

	if typeFlag == nil || outputFlag == nil {
		return errors.New("usage: ./doc-generator [-h] ...")
	}

	var validTypeFlag bool

	for _, v := range validTypes {
		if v == *typeFlag {
			validTypeFlag = true
		}
	}

	if !validTypeFlag {
		return fmt.Errorf("'%s' is an invalid -type", *typeFlag)
	}

	var validOutputFlag bool

	for _, v := range validOutput {
		if v == *outputFlag {
			validOutputFlag = true
		}
	}

	if !validOutputFlag {
		return fmt.Errorf("'%s' is an invalid -output", *outputFlag)
	}

	return nil
}
