/**
 * Licensed to the Apache Software Foundation (ASF) under one
 * or more contributor license agreements.  See the NOTICE file
 * distributed with this work for additional information
 * regarding copyright ownership.  The ASF licenses this file
 * to you under the Apache License, Version 2.0 (the
 * "License"); you may not use this file except in compliance
 * with the License.  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package advertiser drives a radio through the advertising lifecycle:
// start, periodic housekeeping, automatic expiry, reconfiguration and stop.
//
// All state transitions run on the controller's task queue.  Radio callbacks
// and timer expirations are posted back onto that queue and carry the
// session generation they were created for; anything from an older session
// is discarded.
package advertiser

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"mynewt.apache.org/blecast/bcxact/adfield"
	"mynewt.apache.org/blecast/bcxact/adv"
	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/bledefs"
	"mynewt.apache.org/blecast/bcxact/cfgcheck"
	"mynewt.apache.org/blecast/bcxact/company"
	"mynewt.apache.org/blecast/bcxact/task"
	"mynewt.apache.org/blecast/bcxact/xport"
)

const taskQueueDepth = 16

var ClosedError = fmt.Errorf("advertiser closed")

type ControllerParams struct {
	Radio  xport.Radio
	Source adv.ConfigSource

	// Optional; defaults to xport.AllowAll.
	Perms xport.PermOracle

	// Optional; a private bus is created if nil.
	Bus *adv.EventBus

	// Optional.
	Fg adv.Foreground

	// Optional; used for logging manufacturer names.
	Companies *company.Registry

	Cfg adv.Cfg
}

func NewControllerParams() ControllerParams {
	return ControllerParams{
		Perms: xport.AllowAll,
		Cfg:   adv.NewCfg(),
	}
}

type Controller struct {
	radio xport.Radio
	src   adv.ConfigSource
	perms xport.PermOracle
	bus   *adv.EventBus
	fg    adv.Foreground
	reg   *company.Registry
	cfg   adv.Cfg

	tq   task.TaskQueue
	disp *dispatcher

	// Read from any goroutine; written only by jobs.
	state int32
	gen   uint64

	// Owned by the task queue.
	tok      xport.AdvToken
	hasTok   bool
	fgHeld   bool
	updating bool
	timers   *sessionTimers

	closeCh   chan struct{}
	closeOnce sync.Once
}

func NewController(params ControllerParams) (*Controller, error) {
	if params.Radio == nil {
		return nil, fmt.Errorf("advertiser requires a radio")
	}
	if params.Source == nil {
		return nil, fmt.Errorf("advertiser requires a configuration source")
	}

	c := &Controller{
		radio:   params.Radio,
		src:     params.Source,
		perms:   params.Perms,
		bus:     params.Bus,
		fg:      params.Fg,
		reg:     params.Companies,
		cfg:     params.Cfg,
		tq:      task.NewTaskQueue("advertiser"),
		closeCh: make(chan struct{}),
	}

	if c.perms == nil {
		c.perms = xport.AllowAll
	}
	if c.bus == nil {
		c.bus = adv.NewEventBus()
	}
	if c.reg == nil {
		c.reg = company.Default()
	}
	if c.cfg.MaxDuration <= 0 {
		c.cfg.MaxDuration = adv.DFLT_MAX_DURATION
	}
	if c.cfg.TickInterval <= 0 {
		c.cfg.TickInterval = adv.DFLT_TICK_INTERVAL
	}
	if c.cfg.SettleDelay < 0 {
		c.cfg.SettleDelay = 0
	}

	if err := c.tq.Start(taskQueueDepth); err != nil {
		return nil, err
	}
	c.disp = newDispatcher(c.bus, c.subscriberFailed)

	return c, nil
}

func (c *Controller) Bus() *adv.EventBus {
	return c.bus
}

// Done is closed once the controller is closed and its final events have been
// delivered.
func (c *Controller) Done() <-chan struct{} {
	return c.disp.doneCh
}

func (c *Controller) publish(e adv.Event) {
	c.disp.post(e)
}

// State never reports STATE_FAILED: every failure path returns the
// controller to STATE_IDLE after publishing the failure event.
func (c *Controller) State() adv.State {
	return adv.State(atomic.LoadInt32(&c.state))
}

func (c *Controller) setState(s adv.State) {
	prev := adv.State(atomic.SwapInt32(&c.state, int32(s)))
	if prev != s {
		log.Debugf("advertiser state: %s --> %s", prev, s)
	}
}

func (c *Controller) curGen() uint64 {
	return atomic.LoadUint64(&c.gen)
}

// Invalidates everything belonging to the current session.
func (c *Controller) bumpGen() uint64 {
	return atomic.AddUint64(&c.gen, 1)
}

// Compatibility reports whether the radio can advertise at all.
func (c *Controller) Compatibility() (bool, string) {
	if !c.radio.Present() {
		return false, "no Bluetooth LE advertising support on this host"
	}

	return true, "Bluetooth LE advertising supported"
}

// Wraps a job so that a panic anywhere in it is reported as an exception
// event and leaves the controller idle.
func (c *Controller) guard(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				msg := fmt.Sprintf("%v", r)
				log.Errorf("advertiser: unexpected failure: %s", msg)

				c.abort(msg)
				err = fmt.Errorf("advertiser: %s", msg)
			}
		}()

		return fn()
	}
}

// Ends any session and reports msg as an exception.
func (c *Controller) abort(msg string) {
	c.bumpGen()
	c.releaseRadio()
	c.cleanup()
	c.setEnabled(false)
	c.publish(adv.ExceptionEvent(msg))
}

// A subscriber panicked while handling an event.
func (c *Controller) subscriberFailed(msg string) {
	c.tq.Enqueue(c.guard(func() error {
		c.abort(msg)
		return nil
	}))
}

func (c *Controller) run(fn func() error) error {
	err := c.tq.Run(c.guard(fn))
	if err == task.InactiveError {
		return ClosedError
	}

	return err
}

// Start requests advertising with the configuration currently held by the
// source.  The outcome is published on the bus; a refused precondition is
// also returned.  Starting while a session is starting or active is a no-op.
func (c *Controller) Start() error {
	return c.run(c.startLocked)
}

// Stop ends the current session, if any, and publishes EVENT_STOPPED.
func (c *Controller) Stop() error {
	return c.run(func() error {
		c.updating = false
		return c.stopLocked()
	})
}

// UpdateConfig restarts an active session so that it picks up the current
// configuration.  The radio is given SettleDelay between stop and start;
// State() stays responsive throughout.  A Stop() during the pause cancels the
// restart.
func (c *Controller) UpdateConfig() error {
	restart := false

	err := c.run(func() error {
		if c.State() != adv.STATE_ACTIVE {
			log.Debugf("advertiser: not active; new configuration applies " +
				"on next start")
			return nil
		}

		log.Infof("Restarting advertising with updated configuration")
		if err := c.stopLocked(); err != nil {
			return err
		}
		c.updating = true
		restart = true
		return nil
	})
	if err != nil || !restart {
		return err
	}

	timer := time.NewTimer(c.cfg.SettleDelay)
	select {
	case <-timer.C:
	case <-c.closeCh:
		bcxutil.StopAndDrainTimer(timer)
		return ClosedError
	}

	return c.run(func() error {
		if !c.updating {
			log.Debugf("advertiser: configuration update cancelled")
			return nil
		}
		c.updating = false
		return c.startLocked()
	})
}

// Close runs the same teardown as Stop and shuts the controller down.  Further
// calls fail with ClosedError.
func (c *Controller) Close() error {
	var err error

	c.closeOnce.Do(func() {
		close(c.closeCh)

		err = c.run(func() error {
			c.updating = false
			return c.stopLocked()
		})

		c.tq.Stop(ClosedError)
		c.disp.stop()
	})

	return err
}

func (c *Controller) checkPreconds() error {
	if !c.radio.Present() {
		return bcxutil.NewPreconditionError(bcxutil.PRECOND_NOT_SUPPORTED,
			"Bluetooth LE advertising not supported")
	}
	if !c.radio.Enabled() {
		return bcxutil.NewPreconditionError(bcxutil.PRECOND_DISABLED,
			"Bluetooth is disabled")
	}
	if !c.perms.HasPermission(xport.PERM_ADVERTISE) {
		return bcxutil.NewPreconditionError(bcxutil.PRECOND_PERMISSION,
			"missing advertise permission")
	}

	return nil
}

func (c *Controller) readConfig() (cfgcheck.Parsed, error) {
	bc, err := c.src.BroadcastConfig()
	if err != nil {
		return cfgcheck.Parsed{}, bcxutil.FmtPreconditionError(
			bcxutil.PRECOND_CONFIG, "cannot read configuration: %s",
			err.Error())
	}

	return cfgcheck.Parse(bc)
}

func (c *Controller) refuse(err error) error {
	perr := bcxutil.ToPrecondition(err)
	if perr == nil {
		perr = bcxutil.NewPreconditionError(bcxutil.PRECOND_CONFIG, err.Error())
	}

	log.Warnf("Not advertising: %s", perr.Text)
	c.publish(adv.PreconditionEvent(perr))

	return perr
}

func (c *Controller) settingsFor(p cfgcheck.Parsed) xport.AdvSettings {
	s := c.cfg.Settings

	if p.Addr.IsRandomStatic() {
		addr := p.Addr
		s.OwnAddr = &addr
		s.OwnAddrType = bledefs.BLE_ADDR_TYPE_RANDOM
	} else {
		log.Debugf("advertiser: %s is not a static random address; "+
			"using the adapter address", p.Addr.String())
	}

	return s
}

func (c *Controller) startLocked() error {
	switch st := c.State(); st {
	case adv.STATE_STARTING, adv.STATE_ACTIVE:
		log.Debugf("advertiser: already %s; ignoring start", st)
		return nil
	}
	if c.updating {
		log.Debugf("advertiser: configuration update pending; ignoring start")
		return nil
	}

	if err := c.checkPreconds(); err != nil {
		return c.refuse(err)
	}

	parsed, err := c.readConfig()
	if err != nil {
		return c.refuse(err)
	}

	pkt, err := buildPacket(parsed.Payload, c.reg)
	if err != nil {
		return c.refuse(err)
	}

	advData, rspData, err := pkt.EncodeChecked()
	if err != nil {
		return c.refuse(err)
	}

	// Checked again immediately before touching the radio.
	if !c.perms.HasPermission(xport.PERM_ADVERTISE) {
		return c.refuse(bcxutil.NewPreconditionError(
			bcxutil.PRECOND_PERMISSION, "missing advertise permission"))
	}

	gen := c.bumpGen()
	c.setState(adv.STATE_STARTING)
	c.acquireFg()

	settings := c.settingsFor(parsed)
	log.Debugf("advertiser: starting gen=%d %s", gen, settings.String())
	bcxutil.LogRadioData("advertising data", advData)

	tok, err := c.radioStart(settings, advData, rspData, func(status int) {
		c.tq.Enqueue(c.guard(func() error {
			return c.onStartResult(gen, status)
		}))
	})
	if err != nil {
		log.Errorf("Failed to start advertising: %s", err.Error())
		c.bumpGen()
		c.cleanup()
		c.setEnabled(false)
		c.publish(adv.ExceptionEvent(err.Error()))
		return err
	}

	c.tok = tok
	c.hasTok = true

	return nil
}

func (c *Controller) onStartResult(gen uint64, status int) error {
	if gen != c.curGen() || c.State() != adv.STATE_STARTING {
		log.Debugf("advertiser: ignoring stale start result "+
			"gen=%d cur=%d status=%d", gen, c.curGen(), status)
		return nil
	}

	if status == xport.ADV_STATUS_SUCCESS {
		c.setState(adv.STATE_ACTIVE)
		c.setEnabled(true)
		c.armTimers(gen)

		log.Infof("Advertising started; stopping automatically in %s",
			c.cfg.MaxDuration)
		c.publish(adv.StartedEvent())
		return nil
	}

	reason := xport.AdvStatusToString(status)
	log.Errorf("Advertising failed: %s", reason)

	c.hasTok = false
	c.bumpGen()
	c.cleanup()
	c.setEnabled(false)
	c.publish(adv.FailedEvent(reason))

	return bcxutil.NewDriverError(status, reason)
}

func (c *Controller) onExpire(gen uint64) error {
	if gen != c.curGen() || c.State() != adv.STATE_ACTIVE {
		log.Debugf("advertiser: ignoring stale expiry gen=%d", gen)
		return nil
	}

	log.Infof("Advertising time limit (%s) reached; stopping",
		c.cfg.MaxDuration)
	return c.stopLocked()
}

// Tears down the current session.  Reaching the end of this function does not
// depend on the radio cooperating.
func (c *Controller) stopLocked() error {
	if c.State() != adv.STATE_IDLE {
		c.setState(adv.STATE_STOPPING)
	}

	c.bumpGen()
	c.releaseRadio()
	c.cleanup()
	c.setEnabled(false)

	log.Infof("Advertising stopped")
	c.publish(adv.StoppedEvent())

	return nil
}

// Asks the radio to stop the current instance, if there is one.
func (c *Controller) releaseRadio() {
	if !c.hasTok {
		return
	}

	tok := c.tok
	c.hasTok = false

	if !c.perms.HasPermission(xport.PERM_ADVERTISE) {
		log.Warnf("Missing advertise permission; not stopping radio")
		return
	}

	if err := c.radioStop(tok); err != nil {
		log.Errorf("Failed to stop advertising: %s", err.Error())
	}
}

// Returns the controller to idle with no timers and no foreground claim.
func (c *Controller) cleanup() {
	c.cancelTimers()
	c.releaseFg()
	c.setState(adv.STATE_IDLE)
}

func (c *Controller) setEnabled(enabled bool) {
	if err := c.src.SetEnabled(enabled); err != nil {
		log.Warnf("Failed to record advertising state: %s", err.Error())
	}
}

func (c *Controller) acquireFg() {
	if c.fg != nil && !c.fgHeld {
		c.fg.Acquire(c.cfg.MaxDuration)
		c.fgHeld = true
	}
}

func (c *Controller) releaseFg() {
	if c.fg != nil && c.fgHeld {
		c.fgHeld = false
		c.fg.Release()
	}
}

func (c *Controller) radioStart(settings xport.AdvSettings, advData []byte,
	rspData []byte, cb xport.AdvCallback) (tok xport.AdvToken, err error) {

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("radio failure: %v", r)
		}
	}()

	return c.radio.StartAdvertising(settings, advData, rspData, cb)
}

func (c *Controller) radioStop(tok xport.AdvToken) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("radio failure: %v", r)
		}
	}()

	return c.radio.StopAdvertising(tok)
}

// Splits the configured payload into structures, logging what it contains.
// Only well-formed structures are transmitted.
func buildPacket(payload []byte, reg *company.Registry) (adfield.Packet, error) {
	f := adfield.ParseFields(payload)
	if len(f.Structs) == 0 {
		return adfield.Packet{}, bcxutil.NewPreconditionError(
			bcxutil.PRECOND_CONFIG,
			"advertising data contains no valid AD structures")
	}

	if f.Flags != nil {
		log.Debugf("adv flags: 0x%02x (%s)", *f.Flags,
			bledefs.BleAdvFlagsString(*f.Flags))
	}
	for _, u := range f.Uuids16 {
		log.Debugf("adv service uuid: %s", u.Uuid128String())
	}
	if f.MfgData != nil {
		log.Debugf("adv mfg data: company=0x%04x (%s) len=%d data=%s",
			f.MfgData.CompanyId, reg.Name(f.MfgData.CompanyId),
			len(f.MfgData.Payload), bcxutil.HexString(f.MfgData.Payload))
	}
	for _, s := range f.Unknown {
		log.Debugf("adv unrecognized structure: %s", s.String())
	}

	return adfield.Packet{Adv: f.Structs}, nil
}
