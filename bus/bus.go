package bus

import (
	"sync"
)

// In-process pub/sub with retained messages. Topics are slash-free string
// segments; subscription patterns may use "+" (one segment) and "#" (rest).
// Publishing never blocks: a full subscriber queue drops its oldest message.

// Topic is a sequence of path segments.
type Topic []string

// T builds a topic from segments.
func T(parts ...string) Topic { return Topic(parts) }

func (t Topic) String() string {
	if len(t) == 0 {
		return ""
	}
	n := len(t) - 1
	for _, s := range t {
		n += len(s)
	}
	b := make([]byte, 0, n)
	for i, s := range t {
		if i > 0 {
			b = append(b, '/')
		}
		b = append(b, s...)
	}
	return string(b)
}

// Equal reports segment-wise equality.
func (t Topic) Equal(o Topic) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// -----------------------------------------------------------------------------
// Message
// -----------------------------------------------------------------------------

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
}

// -----------------------------------------------------------------------------
// Subscription
// -----------------------------------------------------------------------------

type Subscription struct {
	pattern Topic
	ch      chan *Message
	conn    *Connection
}

func (s *Subscription) Pattern() Topic           { return s.pattern }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

// -----------------------------------------------------------------------------
// Trie node
// -----------------------------------------------------------------------------

type node struct {
	children map[string]*node
	subs     []*Subscription
	retained *Message
}

func (n *node) child(seg string) *node {
	if n.children == nil {
		return nil
	}
	return n.children[seg]
}

func (n *node) ensureChild(seg string) *node {
	if n.children == nil {
		n.children = make(map[string]*node)
	}
	c, ok := n.children[seg]
	if !ok {
		c = &node{}
		n.children[seg] = c
	}
	return c
}

// -----------------------------------------------------------------------------
// Bus
// -----------------------------------------------------------------------------

type Bus struct {
	mu   sync.Mutex
	root *node
	qLen int
}

// NewBus creates a bus with the given per-subscription queue length.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8
	}
	return &Bus{root: &node{}, qLen: queueLen}
}

// Publish delivers msg to every matching subscriber and, when msg.Retained,
// stores it at the topic (a nil payload clears the retained slot).
// Publish topics must be literal; wildcards belong in patterns only.
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.deliver(b.root, msg.Topic, msg)

	if !msg.Retained {
		return
	}
	n := b.root
	for _, seg := range msg.Topic {
		n = n.ensureChild(seg)
	}
	if msg.Payload == nil {
		n.retained = nil
	} else {
		n.retained = msg
	}
}

// deliver walks subscription patterns against a literal topic.
func (b *Bus) deliver(n *node, topic Topic, msg *Message) {
	if n == nil {
		return
	}
	if h := n.child("#"); h != nil {
		for _, s := range h.subs {
			push(s.ch, msg)
		}
	}
	if len(topic) == 0 {
		for _, s := range n.subs {
			push(s.ch, msg)
		}
		return
	}
	b.deliver(n.child(topic[0]), topic[1:], msg)
	b.deliver(n.child("+"), topic[1:], msg)
}

// push enqueues without blocking, dropping the oldest on a full queue.
func push(ch chan *Message, msg *Message) {
	select {
	case ch <- msg:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- msg:
		default:
		}
	}
}

func (b *Bus) addSubscription(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	for _, seg := range sub.pattern {
		n = n.ensureChild(seg)
	}
	n.subs = append(n.subs, sub)

	// Replay retained messages matching the pattern.
	collectRetained(b.root, sub.pattern, func(m *Message) { push(sub.ch, m) })
}

func collectRetained(n *node, pattern Topic, out func(*Message)) {
	if n == nil {
		return
	}
	if len(pattern) == 0 {
		if n.retained != nil {
			out(n.retained)
		}
		return
	}
	switch pattern[0] {
	case "#":
		subtreeRetained(n, out)
	case "+":
		for _, c := range n.children {
			collectRetained(c, pattern[1:], out)
		}
	default:
		collectRetained(n.child(pattern[0]), pattern[1:], out)
	}
}

func subtreeRetained(n *node, out func(*Message)) {
	if n.retained != nil {
		out(n.retained)
	}
	for _, c := range n.children {
		subtreeRetained(c, out)
	}
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	var stack []*node
	for _, seg := range sub.pattern {
		c := n.child(seg)
		if c == nil {
			return
		}
		stack = append(stack, n)
		n = c
	}
	for i, s := range n.subs {
		if s == sub {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			break
		}
	}
	// Prune empty nodes.
	for i := len(sub.pattern) - 1; i >= 0; i-- {
		parent := stack[i]
		seg := sub.pattern[i]
		c := parent.children[seg]
		if len(c.subs) == 0 && len(c.children) == 0 && c.retained == nil {
			delete(parent.children, seg)
		} else {
			break
		}
	}
}

// -----------------------------------------------------------------------------
// Connection
// -----------------------------------------------------------------------------

type Connection struct {
	bus  *Bus
	mu   sync.Mutex
	subs []*Subscription
	id   string
}

// NewConnection creates a connection bound to this bus.
func (b *Bus) NewConnection(id string) *Connection {
	return &Connection{bus: b, id: id}
}

func (c *Connection) ID() string { return c.id }

// Publish sends a message via the bus.
func (c *Connection) Publish(msg *Message) { c.bus.Publish(msg) }

// Subscribe registers a pattern subscription owned by this connection.
func (c *Connection) Subscribe(pattern Topic) *Subscription {
	sub := &Subscription{
		pattern: pattern,
		ch:      make(chan *Message, c.bus.qLen),
		conn:    c,
	}
	c.bus.addSubscription(sub)
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscription owned by this connection.
func (c *Connection) Unsubscribe(sub *Subscription) {
	c.bus.unsubscribe(sub)
	c.mu.Lock()
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	close(sub.ch)
}

// Disconnect closes all subscriptions and clears them.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, sub := range subs {
		c.bus.unsubscribe(sub)
		close(sub.ch)
	}
}
