// @title ReadSprint 后端 API
// @version 1.0
// @description 文档阅读计划平台的后端服务：逐页难度分析、阅读时长估算与冲刺调度。

// @contact.name API支持

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"readsprint_backend/internal/app"
	"readsprint_backend/internal/config"
	"readsprint_backend/pkg/configwatcher"
	"readsprint_backend/pkg/logger"
)

func main() {
	watch := flag.Bool("watch-config", false, "监听配置文件变更并热加载")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *watch {
		go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
			if c, ok := newCfg.(*config.Config); ok {
				for _, callback := range application.ConfigCallbacks() {
					callback(c)
				}
			}
		})
	}

	application.Run()
}
