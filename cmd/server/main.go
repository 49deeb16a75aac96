package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/api"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
)

type inferRequest struct {
	Model   string         `json:"model"`
	Inputs  []requestInput `json:"inputs" binding:"required"`
	Options requestOptions `json:"options"`
}

type requestInput struct {
	Text     string `json:"text"`
	Path     string `json:"path"`
	URL      string `json:"url"`
	Question string `json:"question"`
}

type requestOptions struct {
	ReturnCount  int     `json:"return_count"`
	TopK         int     `json:"top_k"`
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
}

type inferResponse struct {
	ID      string                `json:"id"`
	Task    domain.Task           `json:"task"`
	Model   string                `json:"model"`
	Results [][]domain.Prediction `json:"results"`
}

func main() {
	// .env is optional; the config file and real environment win.
	_ = godotenv.Load()
	configPath := os.Getenv("TASKPIPE_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	config, err := common.LoadConfig(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("FATAL: failed to load config: %v", err)
		}
		config = common.NewConfig(nil)
	}
	taskpipe := api.NewAPI(config)
	defer taskpipe.Stop()

	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "taskpipe",
		})
	})
	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/tasks", func(c *gin.Context) {
			tasks := make([]gin.H, 0)
			for _, task := range taskpipe.Tasks() {
				models := make([]gin.H, 0)
				for _, card := range taskpipe.Models(task) {
					models = append(models, gin.H{"id": card.ID, "description": card.Description})
				}
				tasks = append(tasks, gin.H{"task": task, "models": models})
			}
			c.JSON(http.StatusOK, gin.H{"tasks": tasks})
		})
		apiV1.POST("/tasks/:task", func(c *gin.Context) {
			handleInfer(c, taskpipe)
		})
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("taskpipe server starting on http://localhost:%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("FATAL: failed to start server: %v", err)
	}
}

func handleInfer(c *gin.Context, taskpipe api.API) {
	task, err := domain.ParseTask(c.Param("task"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	var request inferRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	options := api.DefaultPipelineOptions
	if request.Model != "" {
		options = options.WithModel(request.Model)
	}
	pipeline, err := taskpipe.Pipeline(task, options)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inputs := make([]domain.Input, 0, len(request.Inputs))
	for _, input := range request.Inputs {
		inputs = append(inputs, domain.Input{
			Text:     input.Text,
			Path:     input.Path,
			URL:      input.URL,
			Question: input.Question,
		})
	}
	runOptions := domain.RunOptions{
		ReturnCount:  request.Options.ReturnCount,
		TopK:         request.Options.TopK,
		MaxNewTokens: request.Options.MaxNewTokens,
		Temperature:  request.Options.Temperature,
	}
	results, err := pipeline.Run(c.Request.Context(), inputs, runOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, inferResponse{
		ID:      uuid.NewString(),
		Task:    task,
		Model:   pipeline.ModelID(),
		Results: results,
	})
}
