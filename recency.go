package cache

import "container/list"

// recencyList tracks access order for LRU eviction using a doubly-linked
// list. The most recently used key sits at the front.
type recencyList struct {
	order *list.List
}

func newRecencyList() *recencyList {
	return &recencyList{order: list.New()}
}

func (r *recencyList) push(key string) *list.Element {
	return r.order.PushFront(key)
}

func (r *recencyList) touch(elem *list.Element) {
	r.order.MoveToFront(elem)
}

func (r *recencyList) remove(elem *list.Element) {
	r.order.Remove(elem)
}

// oldest returns the least recently used key, if any.
func (r *recencyList) oldest() (string, bool) {
	elem := r.order.Back()
	if elem == nil {
		return "", false
	}
	return elem.Value.(string), true
}
