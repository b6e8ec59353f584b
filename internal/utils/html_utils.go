package utils

import (
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EnhanceHTMLContent 为渲染结果中的图片增加懒加载和防盗链属性，外链统一新窗口打开
func EnhanceHTMLContent(htmlStr string) template.HTML {
	if htmlStr == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return template.HTML(htmlStr)
	}

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		s.SetAttr("referrerpolicy", "no-referrer")
		s.SetAttr("loading", "lazy")
	})

	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			s.SetAttr("target", "_blank")
			s.SetAttr("rel", "noopener noreferrer")
		}
	})

	// goquery renders full document tags if missing, we just want the body content
	out, _ := doc.Find("body").Html()
	if out == "" {
		out, _ = doc.Html()
	}

	return template.HTML(out)
}
