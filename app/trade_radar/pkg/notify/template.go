package notify

const reportHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Trade Radar Report</title>
  <style>
    body {
      margin: 0;
      padding: 24px;
      background-color: #f3f4f6;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
      color: #111827;
      line-height: 1.5;
    }

    .container {
      max-width: 720px;
      margin: 0 auto;
      background: #ffffff;
      border-radius: 8px;
      border: 1px solid #e5e7eb;
      overflow: hidden;
    }

    .header {
      padding: 20px 24px;
      background: #1e3a8a;
      color: #ffffff;
    }

    .item {
      padding: 16px 24px;
      border-top: 1px solid #f3f4f6;
    }

    .meta {
      font-size: 12px;
      color: #6b7280;
    }

    .analysis {
      background: #eff6ff;
      border-left: 3px solid #1e3a8a;
      padding: 12px 16px;
      font-size: 14px;
      white-space: pre-wrap;
    }

    .footer {
      padding: 16px 24px;
      font-size: 12px;
      color: #9ca3af;
      text-align: center;
      background: #f9fafb;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <div><strong>Trade Radar</strong> · {{.Language.Label}}</div>
      <div>{{date .Generated}}</div>
    </div>
    {{range .Entries}}
    <div class="item">
      <h3><a href="{{.Item.Link}}" target="_blank" rel="noopener">{{.Item.Title}}</a></h3>
      <div class="meta">{{.Item.PubDate}} · {{.Item.Creator}} · {{.Item.Category}}</div>
      {{if .Lines}}
      <ul>
        {{range .Lines}}<li>{{.}}</li>{{end}}
      </ul>
      {{end}}
      {{with .Analysis}}<div class="analysis">{{.Text}}</div>{{end}}
    </div>
    {{else}}
    <div class="item">No analyses.</div>
    {{end}}
    <div class="footer">Report {{.ID}}</div>
  </div>
</body>
</html>`
