package browser

// viewportRange is a half-open byte range into the page content.
type viewportRange struct {
	start, end int
}

// splitPages recomputes the viewport ranges for the current content.
// Search result pages are kept whole; other pages are cut into
// viewport-sized ranges extended forward to the next whitespace byte so
// words are never split. The boundary scan only stops on ASCII
// whitespace, so multi-byte runes stay intact.
func (b *Browser) splitPages() {
	if isSearchAddress(b.Address()) {
		b.viewports = []viewportRange{{0, len(b.pageContent)}}
		return
	}

	if len(b.pageContent) == 0 {
		b.viewports = []viewportRange{{0, 0}}
		return
	}

	b.viewports = nil
	start := 0
	for start < len(b.pageContent) {
		end := start + b.cfg.ViewportSize
		if end > len(b.pageContent) {
			end = len(b.pageContent)
		}
		for end < len(b.pageContent) && !isViewportBreak(b.pageContent[end-1]) {
			end++
		}
		b.viewports = append(b.viewports, viewportRange{start, end})
		start = end
	}
}

func isViewportBreak(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
