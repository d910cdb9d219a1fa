// Package prompt 根据新闻条目构造发送给大模型的分析提示词
package prompt

import (
	"regexp"
	"strings"
	"text/template"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
)

var (
	numberPattern     = regexp.MustCompile(`\d+(\.\d+)?`)
	comparisonPattern = regexp.MustCompile(`(?i)(?:vs|versus)\s+[-\d.]+`)
)

const enTemplate = `Analyze this financial news with the following details:

Title: {{.Title}}

Key Data Points:
{{.Description}}

Consider:
1. Numerical Changes: {{.Numbers}}
2. Comparisons to Estimates: {{.Comparisons}}

Provide a concise trading analysis focusing on:
1. Market Impact: What's the immediate effect on relevant markets?
2. Trading Direction: Clear buy/sell bias based on the data
3. Key Reasoning: Most important data point supporting this view
4. Timeframe: Immediate (hours), Short (days), or Medium (weeks)

Keep it brief and actionable.`

const frTemplate = `Analysez cette actualité financière avec les détails suivants:

Titre: {{.Title}}

Points clés:
{{.Description}}

Considérez:
1. Changements numériques: {{.Numbers}}
2. Comparaisons avec les estimations: {{.Comparisons}}

Fournissez une analyse de trading concise en vous concentrant sur:
1. Impact sur le marché: Quel est l'effet immédiat sur les marchés concernés?
2. Direction du trading: Biais clair d'achat/vente basé sur les données
3. Raisonnement clé: Point de données le plus important soutenant cette vue
4. Horizon temporel: Immédiat (heures), Court (jours) ou Moyen (semaines)

Gardez l'analyse brève et exploitable.`

// text/template 不做 HTML 转义，描述中的标记原样保留
var templates = map[model.Language]*template.Template{
	model.LanguageEN: template.Must(template.New("en").Parse(enTemplate)),
	model.LanguageFR: template.Must(template.New("fr").Parse(frTemplate)),
}

type templateData struct {
	Title       string
	Description string
	Numbers     string
	Comparisons string
}

// ExtractNumbers 按出现顺序提取描述中的数字，保留重复项
func ExtractNumbers(text string) []string {
	return numberPattern.FindAllString(text, -1)
}

// ExtractComparisons 提取 "vs 3.93" / "versus -0.2" 形式的对比短语
func ExtractComparisons(text string) []string {
	return comparisonPattern.FindAllString(text, -1)
}

// Build 生成提示词，未知语言按英文处理
func Build(item model.NewsItem, lang model.Language) string {
	tmpl, ok := templates[lang]
	if !ok {
		tmpl = templates[model.LanguageEN]
	}

	data := templateData{
		Title:       item.Title,
		Description: item.Description,
		Numbers:     strings.Join(ExtractNumbers(item.Description), ", "),
		Comparisons: strings.Join(ExtractComparisons(item.Description), ", "),
	}

	var sb strings.Builder
	// 模板是常量且字段均为字符串，执行不会失败
	_ = tmpl.Execute(&sb, data)
	return sb.String()
}
