package internal

// target is anything that can depend on a signal: computeds and effects.
type target interface {
	notify()
}

// DependencyLink ties one source to one target. idx is the link's position in
// the source's target list, or -1 while the link is not subscribed.
type DependencyLink struct {
	dep *Signal
	sub target

	idx int
}

// reconcile turns the sources read during an evaluation into the target's new
// link list, reusing links that survive, subscribing new ones when active is
// set and unsubscribing links that were not read again.
func reconcile(sub target, old []*DependencyLink, sources []*Signal, active bool) []*DependencyLink {
	kept := make(map[*Signal]*DependencyLink, len(old))
	for _, link := range old {
		kept[link.dep] = link
	}

	links := make([]*DependencyLink, 0, len(sources))
	seen := make(map[*Signal]struct{}, len(sources))

	for _, dep := range sources {
		if _, ok := seen[dep]; ok {
			continue
		}
		seen[dep] = struct{}{}

		if link, ok := kept[dep]; ok {
			delete(kept, dep)
			if active && link.idx < 0 {
				dep.subscribe(link)
			}
			links = append(links, link)
			continue
		}

		link := &DependencyLink{dep: dep, sub: sub, idx: -1}
		if active {
			dep.subscribe(link)
		}
		links = append(links, link)
	}

	// new subscriptions go first so a shared upstream computed does not
	// deactivate and reactivate in between
	for _, link := range kept {
		if link.idx >= 0 {
			link.dep.unsubscribe(link)
		}
	}

	return links
}

// release unsubscribes every link of a target.
func release(links []*DependencyLink) {
	for _, link := range links {
		if link.idx >= 0 {
			link.dep.unsubscribe(link)
		}
	}
}
