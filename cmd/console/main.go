package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/api"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
	"avolkov.dev/taskpipe/pkg/taskpipe/infrastructure/media"
	"avolkov.dev/taskpipe/pkg/taskpipe/infrastructure/rss"
	"avolkov.dev/taskpipe/pkg/taskpipe/infrastructure/web"
	"avolkov.dev/taskpipe/pkg/taskpipe/infrastructure/wiki"
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
		if !os.IsNotExist(err) {
			return err
		}
		config = common.NewConfig(nil) // the defaults are good enough to start
	}
	taskpipe := api.NewAPI(config)
	defer taskpipe.Stop()
	session := &consoleSession{
		taskpipe:    taskpipe,
		urlFinder:   web.NewURLFinder(),
		extractor:   web.NewPageContentExtractor(),
		articles:    wiki.NewArticleProvider(),
		currentTask: domain.TaskTextGeneration,
	}
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()
	fmt.Printf("task: %s (switch with :task <name>, see :help)\n", session.currentTask)
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			session.handleDirective(line[1:])
			continue
		}
		session.run(line)
	}
	return nil
}

type consoleSession struct {
	taskpipe    api.API
	urlFinder   *web.URLFinder
	extractor   *web.PageContentExtractor
	articles    *wiki.ArticleProvider
	currentTask domain.Task
	options     api.PipelineOptions
	runOptions  domain.RunOptions
}

func (c *consoleSession) handleDirective(directive string) {
	name, argument, _ := strings.Cut(directive, " ")
	argument = strings.TrimSpace(argument)
	switch name {
	case "task":
		task, err := domain.ParseTask(argument)
		if err != nil {
			fmt.Println(err)
			return
		}
		c.currentTask = task
		c.options = c.options.WithModel("") // the new task's default model takes over
		fmt.Printf("task: %s\n", task)
	case "model":
		c.options = c.options.WithModel(argument)
	case "tasks":
		for _, task := range c.taskpipe.Tasks() {
			models := c.taskpipe.Models(task)
			defaultModel := "none"
			if len(models) > 0 {
				defaultModel = models[0].ID
			}
			fmt.Printf("%s (default model: %s)\n", task, defaultModel)
		}
	case "count":
		c.runOptions = c.runOptions.WithReturnCount(atoiOrZero(argument))
	case "topk":
		c.runOptions = c.runOptions.WithTopK(atoiOrZero(argument))
	case "temp":
		value, err := strconv.ParseFloat(argument, 64)
		if err == nil {
			c.runOptions = c.runOptions.WithTemperature(value)
		}
	case "file":
		c.runFile(argument)
	case "feed":
		c.runFeed(argument)
	case "wiki":
		c.runWiki(argument)
	case "help":
		fmt.Println(":task <name> | :model <id> | :tasks | :count <n> | :topk <n> | :temp <t>")
		fmt.Println(":file <path> runs the current task over the file's lines, one input per line")
		fmt.Println(":feed <rss url> runs the current task over the feed's entries")
		fmt.Println(":wiki <query> runs the current task over a Wikipedia article")
		fmt.Println("then type an input: text (or a page URL) for text tasks, a file path or URL for")
		fmt.Println("media tasks, \"<image> <question>\" for visual question answering")
	default:
		fmt.Printf("unknown directive \"%s\" (see :help)\n", name)
	}
}

func (c *consoleSession) run(line string) {
	input, err := c.buildInput(line)
	if err != nil {
		fmt.Println(err)
		return
	}
	pipeline, err := c.taskpipe.Pipeline(c.currentTask, c.options)
	if err != nil {
		fmt.Println(err)
		return
	}
	predictions, err := domain.RunOne(context.Background(), pipeline, input, c.runOptions)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, prediction := range predictions {
		fmt.Println(formatPrediction(prediction))
	}
}

const maxFeedEntryCount = 20

func (c *consoleSession) runFile(path string) {
	lines, err := common.ReadAllLines(path)
	if err != nil {
		fmt.Println(err)
		return
	}
	pipeline, err := c.taskpipe.Pipeline(c.currentTask, c.options)
	if err != nil {
		fmt.Println(err)
		return
	}
	inputs := make([]domain.Input, 0, len(lines))
	for _, line := range lines {
		input, err := c.buildInput(line)
		if err != nil {
			fmt.Println(err)
			return
		}
		inputs = append(inputs, input)
	}
	dataset := domain.NewSliceDataset(inputs)
	for result := range domain.RunDataset(context.Background(), pipeline, dataset, c.runOptions) {
		if result.Err != nil {
			fmt.Println(result.Err)
			continue
		}
		for _, prediction := range result.Predictions {
			fmt.Println(formatPrediction(prediction))
		}
	}
}

func (c *consoleSession) runFeed(url string) {
	if c.currentTask.Modality() != domain.ModalityText {
		fmt.Println("feeds only make sense for text tasks")
		return
	}
	pipeline, err := c.taskpipe.Pipeline(c.currentTask, c.options)
	if err != nil {
		fmt.Println(err)
		return
	}
	dataset := rss.NewDataset(url, maxFeedEntryCount)
	for result := range domain.RunDataset(context.Background(), pipeline, dataset, c.runOptions) {
		if result.Err != nil {
			fmt.Println(result.Err)
			continue
		}
		fmt.Println(common.Truncate(result.Input.Text, 80))
		for _, prediction := range result.Predictions {
			fmt.Println("  " + formatPrediction(prediction))
		}
	}
}

func (c *consoleSession) runWiki(query string) {
	if c.currentTask.Modality() != domain.ModalityText {
		fmt.Println("articles only make sense for text tasks")
		return
	}
	articleNames, err := c.articles.Search(query, 1)
	if err != nil {
		fmt.Println(err)
		return
	}
	if len(articleNames) == 0 {
		fmt.Printf("no article found for \"%s\"\n", query)
		return
	}
	content, err := c.articles.GetContent(articleNames[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("article: %s\n", articleNames[0])
	pipeline, err := c.taskpipe.Pipeline(c.currentTask, c.options)
	if err != nil {
		fmt.Println(err)
		return
	}
	predictions, err := domain.RunOne(context.Background(), pipeline, domain.TextInput(content), c.runOptions)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, prediction := range predictions {
		fmt.Println(formatPrediction(prediction))
	}
}

func (c *consoleSession) buildInput(line string) (domain.Input, error) {
	switch c.currentTask.Modality() {
	case domain.ModalityImage, domain.ModalityAudio:
		return domain.MediaInput(line), nil
	case domain.ModalityImageWithQuestion:
		imageRef, question, ok := strings.Cut(line, " ")
		if !ok {
			return domain.Input{}, fmt.Errorf("expected \"<image path or URL> <question>\"")
		}
		return domain.ImageQuestionInput(imageRef, strings.TrimSpace(question)), nil
	default:
		// A page URL given to a text task means "run on the page's text".
		urls := c.urlFinder.FindURLs(line)
		if len(urls) == 1 && strings.TrimSpace(line) == urls[0] && !media.IsImageFormat(urls[0]) && !media.IsAudioFormat(urls[0]) {
			pageContent, err := c.extractor.ExtractPageContentFromURL(urls[0])
			if err != nil {
				return domain.Input{}, err
			}
			return domain.TextInput(pageContent), nil
		}
		return domain.TextInput(line), nil
	}
}

func formatPrediction(prediction domain.Prediction) string {
	switch {
	case prediction.Label != "":
		return fmt.Sprintf("%s (%.4f)", prediction.Label, prediction.Score)
	case prediction.Answer != "":
		return fmt.Sprintf("%s (%.4f)", prediction.Answer, prediction.Score)
	case prediction.Text != "":
		return prediction.Text
	default:
		return prediction.GeneratedText
	}
}

func atoiOrZero(str string) int {
	value, err := strconv.Atoi(str)
	if err != nil {
		return 0
	}
	return value
}
