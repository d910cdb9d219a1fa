package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/analysis"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/config"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/engine"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/feed"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/logger"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/notify"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/textutil"
)

const defaultConf = "configs/config.yaml"

var (
	flagConf    = flag.String("conf", defaultConf, "config path")
	flagFeed    = flag.String("feed", "", "feed file path or http(s) url, demo feed when empty")
	flagLang    = flag.String("lang", "", "prompt language: en or fr")
	flagKey     = flag.String("key", "", "api key, falls back to OPENAI_API_KEY / GEMINI_API_KEY")
	flagList    = flag.Bool("list", false, "list feed items")
	flagAnalyze = flag.String("analyze", "", "analyze the item with this link")
	flagScan    = flag.Bool("scan", false, "analyze every high-impact item")
	flagOut     = flag.String("out", "", "write the scan report as HTML to this file")
	flagEmail   = flag.Bool("email", false, "email the scan report when smtp is configured")
)

func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := loadConfig(*flagConf)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}
	if err := applyFlags(cfg); err != nil {
		log.Fatalf("参数错误: %v", err)
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// 3. 加载新闻源
	timeout, _ := config.ParseDuration(cfg.Feed.Timeout)
	src, err := feed.NewSource(cfg.Feed.Source, cfg.Feed.Path, cfg.Feed.URL, timeout)
	if err != nil {
		logger.Log.Fatalf("新闻源配置错误: %v", err)
	}
	items, err := feed.Load(ctx, src)
	if err != nil {
		logger.Log.Errorf("加载新闻源失败 [%s]: %v", src.Name(), err)
		fatal("Failed to load demo data")
	}
	logger.Log.Infof("新闻源已加载 [%s]，共 %d 条", src.Name(), len(items))

	if *flagList || (*flagAnalyze == "" && !*flagScan) {
		printItems(items)
		return
	}

	// 4. 初始化分析引擎
	client, err := analysis.NewClient(cfg.LLM)
	if err != nil {
		logger.Log.Fatalf("LLM 初始化失败: %v", err)
	}
	eng := engine.NewEngine(cfg, client)
	lang, err := model.ParseLanguage(cfg.Scan.Language)
	if err != nil {
		fatal(err.Error())
	}
	apiKey := resolveAPIKey(cfg)
	if apiKey == "" {
		fatal("Please configure your OpenAI API key first")
	}

	if *flagAnalyze != "" {
		runAnalyze(ctx, eng, items, apiKey, lang)
	}
	if *flagScan {
		runScan(ctx, cfg, eng, items, apiKey, lang)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) && path == defaultConf {
		return config.Default(), nil
	}
	return cfg, err
}

// applyFlags 命令行参数覆盖配置文件
func applyFlags(cfg *config.Config) error {
	if *flagFeed != "" {
		if strings.HasPrefix(*flagFeed, "http://") || strings.HasPrefix(*flagFeed, "https://") {
			cfg.Feed.Source, cfg.Feed.URL = "url", *flagFeed
		} else {
			cfg.Feed.Source, cfg.Feed.Path = "file", *flagFeed
		}
	}
	if *flagLang != "" {
		lang, err := model.ParseLanguage(*flagLang)
		if err != nil {
			return err
		}
		cfg.Scan.Language = string(lang)
	}
	return cfg.Validate()
}

func resolveAPIKey(cfg *config.Config) string {
	candidates := []string{*flagKey, cfg.LLM.APIKey}
	if cfg.LLM.Provider == "gemini" {
		candidates = append(candidates, os.Getenv("GEMINI_API_KEY"))
	} else {
		candidates = append(candidates, os.Getenv("OPENAI_API_KEY"))
	}
	for _, k := range candidates {
		if k = strings.TrimSpace(k); k != "" {
			return k
		}
	}
	return ""
}

func runAnalyze(ctx context.Context, eng *engine.Engine, items []model.NewsItem, apiKey string, lang model.Language) {
	var target *model.NewsItem
	for i := range items {
		if items[i].Link == *flagAnalyze {
			target = &items[i]
			break
		}
	}
	if target == nil {
		fatal(fmt.Sprintf("News item not found: %s", *flagAnalyze))
	}

	res, err := eng.Analyze(ctx, apiKey, *target, lang)
	if err != nil {
		logger.Log.Errorf("分析新闻失败 [%s]: %v", target.Link, err)
		fatal("Failed to analyze news item. Please check your API key.")
	}
	fmt.Printf("%s\n%s\n\n%s\n", target.Title, strings.Repeat("-", 20), res.Text)
}

func runScan(ctx context.Context, cfg *config.Config, eng *engine.Engine, items []model.NewsItem, apiKey string, lang model.Language) {
	results := make(map[string]*model.AnalysisResult)
	report, err := eng.Scan(ctx, engine.ScanOptions{
		Items:    items,
		Language: lang,
		APIKey:   apiKey,
		ProgressCallback: func(status string, progress int) {
			logger.Log.Infof("扫描进度 %d%%: %s", progress, status)
		},
		OnResult: func(res *model.AnalysisResult) {
			results[res.Link] = res
		},
	})
	switch {
	case errors.Is(err, engine.ErrNoHighImpact):
		fmt.Println("No high-impact news found in the current feed.")
		return
	case err != nil:
		fatal("Failed to scan news items. Please check your API key.")
	}

	r := notify.NewReport(report.ID, lang, report.Selected, results)
	fmt.Print(notify.RenderPlainText(r))

	if *flagOut == "" && !*flagEmail {
		return
	}
	msg, err := notify.NewRenderer().Render(r)
	if err != nil {
		logger.Log.Fatalf("渲染报告失败: %v", err)
	}
	if *flagOut != "" {
		if err := os.WriteFile(*flagOut, []byte(msg.HTML), 0o644); err != nil {
			logger.Log.Fatalf("写入报告失败: %v", err)
		}
		logger.Log.Infof("报告已写入 %s", *flagOut)
	}
	if *flagEmail {
		if err := notify.NewEmailSender(cfg.Notify.SMTP).Send(msg); err != nil {
			logger.Log.Errorf("邮件发送失败: %v", err)
		}
	}
}

func printItems(items []model.NewsItem) {
	for i, item := range items {
		fmt.Printf("#%d %s\n", i+1, item.Title)
		fmt.Printf("   %s | %s | %s\n", item.PubDate, item.Creator, item.Category)
		fmt.Printf("   %s\n", item.Link)
		for _, line := range textutil.PlainLines(item.Description) {
			fmt.Printf("   %s\n", line)
		}
		fmt.Println()
	}
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
