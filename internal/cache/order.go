// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

// orderNode is a node in the doubly-linked insertion-order list.
// The node stores a key for O(1) deletion from the parent map.
type orderNode[K comparable] struct {
	key  K
	prev *orderNode[K]
	next *orderNode[K]
}

// orderList records keys in insertion order.
// The head is the newest entry, the tail is the oldest.
type orderList[K comparable] struct {
	head *orderNode[K]
	tail *orderNode[K]
}

// PushFront adds a new node at the front (newest).
// Returns the created node for later removal.
func (l *orderList[K]) PushFront(key K) *orderNode[K] {
	node := &orderNode[K]{key: key}
	if l.head == nil {
		l.head = node
		l.tail = node
	} else {
		node.next = l.head
		l.head.prev = node
		l.head = node
	}
	return node
}

// Remove removes a node from the list.
func (l *orderList[K]) Remove(node *orderNode[K]) {
	if node == nil {
		return
	}
	l.unlink(node)
}

// Oldest returns the key of the oldest node without removing it.
// Returns zero value and false if list is empty.
func (l *orderList[K]) Oldest() (K, bool) {
	if l.tail == nil {
		var zero K
		return zero, false
	}
	return l.tail.key, true
}

// Each calls fn for every key from oldest to newest.
func (l *orderList[K]) Each(fn func(K)) {
	for n := l.tail; n != nil; n = n.prev {
		fn(n.key)
	}
}

// Clear removes all nodes from the list.
func (l *orderList[K]) Clear() {
	l.head = nil
	l.tail = nil
}

func (l *orderList[K]) unlink(node *orderNode[K]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}

	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}

	node.prev = nil
	node.next = nil
}
