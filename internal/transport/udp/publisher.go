// SPDX-License-Identifier: MIT

// Package udp sends spectrogram columns as binary datagrams. The publisher
// keeps only the newest column and sends it on a fixed interval, so the
// packet rate is independent of the column rate.
package udp

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"spectra/internal/log"
	"spectra/internal/transport"
)

var logger = log.With("udp")

// UDPPublisher sends the latest column at a fixed interval. Columns that
// arrive faster than the interval are coalesced.
type UDPPublisher struct {
	sender   *UDPSender
	interval time.Duration

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex // protects ticker and doneChan during Start/Stop

	latestMu sync.Mutex
	latest   *transport.Frame
	sentIdx  uint64
	sentAny  bool

	sequenceNum  uint32
	packet       Packet
	packetBuffer *bytes.Buffer
}

// NewUDPPublisher creates a publisher on sender. A non-positive interval
// defaults to 16ms.
func NewUDPPublisher(interval time.Duration, sender *UDPSender) (*UDPPublisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("UDP sender cannot be nil")
	}
	if interval <= 0 {
		interval = 16 * time.Millisecond
		logger.Warnf("invalid interval, defaulting to %s", interval)
	}
	return &UDPPublisher{
		sender:       sender,
		interval:     interval,
		packetBuffer: new(bytes.Buffer),
	}, nil
}

// Send records f as the newest column.
func (p *UDPPublisher) Send(f *transport.Frame) error {
	p.latestMu.Lock()
	p.latest = f
	p.latestMu.Unlock()
	return nil
}

// Start launches the publishing goroutine. Calling Start while running is a
// no-op.
func (p *UDPPublisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		logger.Warnf("Start called but already running")
		return
	}
	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}
	ticker, doneChan := p.ticker, p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		logger.Infof("publishing every %s", p.interval)
		for {
			select {
			case <-ticker.C:
				p.publish()
			case <-doneChan:
				return
			}
		}
	}()
}

// Stop halts the publishing goroutine and waits for it. It is safe to call
// more than once.
func (p *UDPPublisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return nil
	}
	p.stopOnce.Do(func() {
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})
	p.mu.Unlock()

	p.wg.Wait()
	logger.Debugf("publisher stopped after %d packets", p.sequenceNum)
	return nil
}

// publish sends the newest column if it has not been sent yet.
func (p *UDPPublisher) publish() {
	p.latestMu.Lock()
	f := p.latest
	if f == nil || (p.sentAny && f.Index == p.sentIdx) {
		p.latestMu.Unlock()
		return
	}
	p.sentIdx, p.sentAny = f.Index, true
	p.latestMu.Unlock()

	p.sequenceNum++
	p.packet = Packet{
		Sequence:  p.sequenceNum,
		Timestamp: f.Timestamp,
		Column:    f.Index,
		Levels:    f.Levels,
	}
	if err := AppendPacket(p.packetBuffer, &p.packet); err != nil {
		logger.Errorf("packing column %d: %v", f.Index, err)
		return
	}
	if err := p.sender.Send(p.packetBuffer.Bytes()); err != nil {
		logger.Warnf("packet %d: %v", p.sequenceNum, err)
		return
	}
	logger.Debugf("sent packet %d (%d bytes)", p.sequenceNum, p.packetBuffer.Len())
}

// Close stops the publisher and closes the sender.
func (p *UDPPublisher) Close() error {
	if err := p.Stop(); err != nil {
		return err
	}
	return p.sender.Close()
}

var _ transport.Transport = (*UDPPublisher)(nil)
