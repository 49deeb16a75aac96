package main

import (
	"context"
	"strings"

	"github.com/whyrusleeping/hellabot"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/api"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
)

func main() {
	err := mainImpl()
	if err != nil {
		panic(err)
	}
}

func mainImpl() error {
	config, err := common.LoadConfig("config.yaml")
	if err != nil {
		return err
	}
	botName := config.GetStringOrDefault("botName", "taskpipe")
	roomName := config.GetStringOrDefault("roomName", "taskpipe")
	serverName := config.GetStringOrDefault("serverName", "irc.euirc.net:6667")
	taskpipe := api.NewAPI(config)
	defer taskpipe.Stop()
	ircBot, err := hbot.NewBot(serverName, botName)
	if err != nil {
		return err
	}
	var trigger = hbot.Trigger{
		Condition: func(b *hbot.Bot, m *hbot.Message) bool {
			return true
		},
		Action: func(b *hbot.Bot, m *hbot.Message) bool {
			if m.Command != "PRIVMSG" {
				return true
			}
			if !strings.HasPrefix(strings.ToLower(m.Content), strings.ToLower(botName)) {
				return true
			}
			what := strings.TrimSpace(m.Content[len(botName):])
			if len(what) == 0 || len(m.To) == 0 || m.To[0] != '#' {
				return false
			}
			if what[0] == ',' || what[0] == ':' {
				what = strings.TrimSpace(what[1:])
			}
			response, err := respond(taskpipe, what)
			if err != nil {
				response = "I'm borked :("
			}
			if response != "" {
				b.Reply(m, m.From+" "+response)
			}
			return true
		},
	}
	ircBot.AddTrigger(trigger)
	ircBot.Channels = []string{"#" + roomName}
	ircBot.Run()
	return nil
}

// A "classify:" or "summarize:" prefix picks the task; everything else goes to text generation.
func respond(taskpipe api.API, what string) (string, error) {
	task := domain.TaskTextGeneration
	if text, ok := strings.CutPrefix(what, "classify:"); ok {
		task = domain.TaskTextClassification
		what = strings.TrimSpace(text)
	} else if text, ok := strings.CutPrefix(what, "summarize:"); ok {
		task = domain.TaskSummarization
		what = strings.TrimSpace(text)
	}
	pipeline, err := taskpipe.Pipeline(task, api.DefaultPipelineOptions)
	if err != nil {
		return "", err
	}
	predictions, err := domain.RunOne(context.Background(), pipeline, domain.TextInput(what), domain.DefaultRunOptions)
	if err != nil {
		return "", err
	}
	if len(predictions) == 0 {
		return "", nil
	}
	prediction := predictions[0]
	if prediction.Label != "" {
		return prediction.Label, nil
	}
	// IRC lines shouldn't be essays.
	return common.Truncate(strings.ReplaceAll(prediction.GeneratedText, "\n", " "), 400), nil
}
