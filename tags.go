package cache

// tagIndex is the reverse index from a dependency tag to the set of keys
// currently carrying it. It lets a whole group of entries be invalidated
// without scanning the key space.
type tagIndex map[string]map[string]struct{}

func newTagIndex() tagIndex {
	return make(tagIndex)
}

func (t tagIndex) add(key string, tags map[string]struct{}) {
	for tag := range tags {
		set := t[tag]
		if set == nil {
			set = make(map[string]struct{})
			t[tag] = set
		}
		set[key] = struct{}{}
	}
}

func (t tagIndex) removeKey(key string, tags map[string]struct{}) {
	for tag := range tags {
		set, ok := t[tag]
		if !ok {
			continue
		}
		delete(set, key)
		if len(set) == 0 {
			delete(t, tag)
		}
	}
}

// retag updates the index for a replaced key. Old and new tag sets are
// diffed so stale associations are removed surgically; appending the new
// tags without dropping the stale ones would silently leak index entries.
func (t tagIndex) retag(key string, prev, next map[string]struct{}) {
	for tag := range prev {
		if _, ok := next[tag]; ok {
			continue
		}
		set := t[tag]
		delete(set, key)
		if len(set) == 0 {
			delete(t, tag)
		}
	}
	for tag := range next {
		if _, ok := prev[tag]; ok {
			continue
		}
		set := t[tag]
		if set == nil {
			set = make(map[string]struct{})
			t[tag] = set
		}
		set[key] = struct{}{}
	}
}

// keys returns a copy of the keys tagged with tag, safe to iterate while
// entries are being removed.
func (t tagIndex) keys(tag string) []string {
	set := t[tag]
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	return keys
}
