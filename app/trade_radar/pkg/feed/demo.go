package feed

const demoItems = `<item>
    <title><![CDATA[US existing home sales for October 3.96M versus 3.93M]]></title>
    <comments>https://www.forexlive.com/news/us-existing-home-sales-for-october-396m-versus-393m-20241121/#respond</comments>
    <pubDate>Thu, 21 Nov 2024 15:00:21 GMT</pubDate>
    <dc:creator><![CDATA[Greg Michalowski]]></dc:creator>
    <category><![CDATA[News]]></category>
    <guid isPermaLink="true">https://www.forexlive.com/news/us-existing-home-sales-for-october-396m-versus-393m-20241121/</guid>
    <link>https://www.forexlive.com/news/us-existing-home-sales-for-october-396m-versus-393m-20241121/</link>
    <description><![CDATA[<ul><li>Prior month 3.84M revised to 3.83M</li><li>October sales 3.96M vs 3.93M estimate</li><li>Median price $407,200, up 4% YoY</li><li>Inventory 4.2 months</li></ul>]]></description>
</item>`

// DemoDocument 内置的示例 feed 文档
func DemoDocument() string {
	return `<?xml version="1.0" encoding="UTF-8"?><rss><channel>` + demoItems + `</channel></rss>`
}
