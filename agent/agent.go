package agent

import (
	"sync"
	"time"

	"github.com/siatlabs/siat/config"
	"github.com/siatlabs/siat/deployment"
	"github.com/siatlabs/siat/executor"
	"github.com/siatlabs/siat/generator"
	"github.com/siatlabs/siat/logger"
	"github.com/siatlabs/siat/persistence"
	"github.com/siatlabs/siat/persistence/inmem"
	rd "github.com/siatlabs/siat/persistence/redis"
	"github.com/siatlabs/siat/rest"
	"github.com/siatlabs/siat/service"
	"github.com/siatlabs/siat/template"
	"github.com/siatlabs/siat/util"
	"go.uber.org/zap"
)

type Agent struct {
	Config       config.Config
	storage      persistence.Storage
	templates    *template.Store
	generator    *generator.Generator
	writer       *deployment.Writer
	runner       *executor.Runner
	flowService  *service.FlowService
	httpServer   *rest.Server
	heartbeat    *util.TickWorker
	shutdown     bool
	shutdowns    chan struct{}
	shutdownLock sync.Mutex
	wg           sync.WaitGroup
}

func New(conf config.Config) (*Agent, error) {
	a := &Agent{
		Config:    conf,
		shutdowns: make(chan struct{}),
	}
	setup := []func() error{
		a.setupStorage,
		a.setupPipeline,
		a.setupFlowService,
		a.setupHttpServer,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupStorage() error {
	switch a.Config.StorageType {
	case config.STORAGE_TYPE_INMEM:
		a.storage = inmem.NewStorage()
	default:
		a.storage = rd.NewRedisStorage(rd.Config{
			Addrs:     a.Config.RedisConfig.Addrs,
			Namespace: a.Config.RedisConfig.Namespace,
		})
	}
	return nil
}

func (a *Agent) setupPipeline() error {
	a.templates = template.NewStore(a.storage.Templates())
	remoteDelay := time.Duration(a.Config.ProviderTimeoutMs) * time.Millisecond
	providers := generator.DefaultProviderChain(a.templates, remoteDelay)
	a.generator = generator.NewGenerator(providers, a.templates, a.storage.Audits())
	a.writer = deployment.NewWriter(a.Config.DeploymentRoot)
	a.runner = executor.NewRunner(a.storage.Executions(), a.storage.Flows(), executor.NewHandlerRegistry())
	return nil
}

func (a *Agent) setupFlowService() error {
	a.flowService = service.NewFlowService(a.storage, a.templates, a.generator,
		a.writer, a.runner, &a.wg, a.Config.GeneratorCapacity)
	a.flowService.Start()
	return nil
}

func (a *Agent) setupHttpServer() error {
	var err error
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, a.flowService, a.Config.TenantHeader, a.Config.UserHeader)
	if err != nil {
		return err
	}
	return nil
}

func (a *Agent) Start() error {
	a.heartbeat = util.NewTickWorker("generation-queue-monitor", 30, a.shutdowns, func() {
		logger.Info("generation queue depth", zap.Int("pending", a.flowService.PendingGenerations()))
	}, &a.wg)
	a.heartbeat.Start()
	go func() {
		if err := a.httpServer.Start(); err != nil {
			_ = a.Shutdown()
			panic(err)
		}
	}()
	return nil
}

func (a *Agent) Shutdown() error {
	logger.Info("shutting down server")
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true
	close(a.shutdowns)

	shutdown := []func() error{
		a.httpServer.Stop,
		a.flowService.Stop,
	}
	for _, fn := range shutdown {
		if err := fn(); err != nil {
			return err
		}
	}
	logger.Info("waiting for all services to shutdown...")
	a.wg.Wait()
	return nil
}
