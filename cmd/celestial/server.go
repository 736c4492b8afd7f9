package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/celestialexpressions/expressions"
)

func serve(addr string, conf serverConfig, reg *expressions.Registry) error {
	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(conf, reg)
	slog.Info("Starting evaluation API", slog.String("addr", addr), slog.Any("modules", reg.Names()))
	err := router.Run(addr)
	if err != nil {
		slog.Error("Exited evaluation API", slog.String("error", err.Error()))
	}
	return err
}

func newRouter(conf serverConfig, reg *expressions.Registry) *gin.Engine {
	router := gin.Default()
	cc := cors.Config{
		AllowOrigins:  conf.AllowOrigins,
		AllowMethods:  []string{"POST", "GET"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length"},
		ExposeHeaders: []string{"Content-Type", "Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cc.AllowOrigins) == 0 {
		cc.AllowAllOrigins = true
	}
	router.Use(cors.New(cc))

	router.GET("/", healthCheckHandle)
	v1 := router.Group("/v1")
	h := newHTTPHandler(reg)
	h.addEvalAPI(v1)
	return router
}

func healthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type httpHandler struct {
	registry *expressions.Registry
}

func newHTTPHandler(reg *expressions.Registry) *httpHandler {
	return &httpHandler{registry: reg}
}

func (h *httpHandler) addEvalAPI(rg *gin.RouterGroup) {
	rg.POST("/eval", h.eval)
	rg.GET("/modules", h.listModules)
}

type evalRequest struct {
	Expression string   `json:"expression"`
	Modules    []string `json:"modules"`
}

func (h *httpHandler) eval(c *gin.Context) {
	var req evalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind eval request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	ctx, err := h.registry.Context(req.Modules...)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": errorKind(err)})
		return
	}
	v, err := expressions.EvalString(req.Expression, ctx)
	if err != nil {
		slog.Debug("evaluation failed", slog.String("expression", req.Expression), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": errorKind(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": v})
}

func (h *httpHandler) listModules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"modules": h.registry.Names()})
}

// errorKind names the kind of a compile or evaluation error for API clients.
func errorKind(err error) string {
	switch err := err.(type) {
	case *expressions.ParseError:
		return err.Kind.String()
	case *expressions.InvalidExpressionError:
		return err.Kind.String()
	case *expressions.EvalError:
		return err.Kind.String()
	case *expressions.FuncError:
		return "FunctionFailed"
	case *expressions.NoSuchVariableError:
		return "NoSuchVariable"
	case *expressions.NoSuchFunctionError:
		return "NoSuchFunction"
	case *expressions.AmbiguousNameError:
		return "AmbiguousName"
	case *expressions.InvalidNameError:
		return "InvalidName"
	case *expressions.MissingModuleError:
		return "MissingModule"
	default:
		return "Unknown"
	}
}
