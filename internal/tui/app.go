// Package tui is the interactive terminal client. It renders from the local
// cache and the notification tracker, and reacts to bus events published by
// the background loops.
package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Mohahamed99-by/Texturnhub/internal/app"
	"github.com/Mohahamed99-by/Texturnhub/internal/bus"
	"github.com/Mohahamed99-by/Texturnhub/internal/status"
	"github.com/Mohahamed99-by/Texturnhub/internal/tui/keys"
	"github.com/Mohahamed99-by/Texturnhub/internal/tui/model"
	"github.com/Mohahamed99-by/Texturnhub/internal/tui/views"
)

// App is the main TUI application shell.
type App struct {
	app       *tview.Application
	pages     *tview.Pages
	vm        *model.ViewModel
	rt        *app.Runtime
	registry  *keys.Registry
	statusBar *views.StatusBar
	inboxList *views.ConversationList
	thread    *views.MessageThread
	composer  *views.Composer
	offerList *views.OfferList
	notifList *views.NotificationList
	loginForm *views.LoginForm
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewApp creates the TUI application over a composed runtime.
func NewApp(rt *app.Runtime) *App {
	ctx, cancel := context.WithCancel(context.Background())
	vm := model.NewViewModel(rt)

	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		vm:        vm,
		rt:        rt,
		registry:  keys.NewRegistry(),
		statusBar: views.NewStatusBar(),
		inboxList: views.NewConversationList(),
		thread:    views.NewMessageThread(),
		composer:  views.NewComposer(),
		offerList: views.NewOfferList(),
		notifList: views.NewNotificationList(),
		loginForm: views.NewLoginForm(),
		ctx:       ctx,
		cancel:    cancel,
	}

	a.statusBar.SetProfile(rt.Profile)
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() { a.app.Stop() },
	})
	a.registry.AddGlobal("offers", &keys.Action{
		Rune: 'o', Key: tcell.KeyRune,
		Description: "o:offers", Visible: true,
		Handler: func() { a.showOffers() },
	})
	a.registry.AddGlobal("notifications", &keys.Action{
		Rune: 'n', Key: tcell.KeyRune,
		Description: "n:notifications", Visible: true,
		Handler: func() { a.showNotifications() },
	})
	a.registry.AddView("offers", "save", &keys.Action{
		Rune: 's', Key: tcell.KeyRune,
		Description: "s:save", Visible: true,
		Handler: func() { a.toggleSavedOffer() },
	})
	a.registry.AddView("notifications", "read", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "r:mark read", Visible: true,
		Handler: func() { a.markNotificationRead() },
	})
}

func (a *App) setupCallbacks() {
	a.inboxList.SetSelectedFunc(func(row, col int) {
		if conv := a.inboxList.Selected(); conv != nil {
			a.openConversation(conv.CounterpartID, conv.CounterpartName)
		}
	})

	a.composer.SetOnSend(func(text string) {
		go func() {
			if err := a.vm.Send(a.ctx, text); err != nil {
				a.vm.Flash.SetError("Send failed: "+err.Error(), 5*time.Second)
			}
			a.redrawThread()
		}()
	})

	a.loginForm.SetOnSubmit(func(email, password string) {
		a.loginForm.ShowMessage("Signing in...")
		go func() {
			if err := a.vm.Login(a.ctx, email, password); err != nil {
				a.app.QueueUpdateDraw(func() {
					a.loginForm.ShowMessage("[red]" + err.Error() + "[-]")
				})
				return
			}
			_ = a.vm.LoadConversations()
			a.app.QueueUpdateDraw(func() {
				a.loginForm.Reset()
				a.inboxList.Update(a.vm.GetConversations())
				a.pages.SwitchToPage("inbox")
				a.app.SetFocus(a.inboxList)
			})
		}()
	})
}

func (a *App) setupLayout() {
	threadFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.thread, 0, 1, false).
		AddItem(a.composer, 1, 0, false)

	a.pages.AddPage("inbox", a.inboxList, true, true)
	a.pages.AddPage("thread", threadFlex, true, false)
	a.pages.AddPage("offers", a.offerList, true, false)
	a.pages.AddPage("notifications", a.notifList, true, false)
	a.pages.AddPage("login", a.loginForm.Layout(), true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentPage, _ := a.pages.GetFrontPage()

		if event.Key() == tcell.KeyEscape {
			switch currentPage {
			case "thread", "offers", "notifications":
				a.showInbox()
				return nil
			}
		}

		// Let text input widgets handle all keys normally.
		focused := a.app.GetFocus()
		if _, ok := focused.(*tview.InputField); ok {
			return event
		}
		if currentPage == "login" {
			return event
		}

		// 'i' focuses the composer (only when not already in an input field).
		if currentPage == "thread" && event.Key() == tcell.KeyRune && event.Rune() == 'i' {
			a.app.SetFocus(a.composer.InputField)
			return nil
		}

		if a.registry.HandleEvent(currentPage, event) {
			return nil
		}

		return event
	})
}

func (a *App) openConversation(counterpartID int64, name string) {
	go func() {
		if err := a.vm.LoadThread(counterpartID, name); err != nil {
			a.vm.Flash.SetError("Load failed: "+err.Error(), 5*time.Second)
			return
		}
		// Acknowledge unread notifications; each success updates the badge
		// on its own.
		go func() {
			if _, err := a.vm.MarkActiveRead(a.ctx); err != nil {
				a.vm.Flash.SetError("Mark read failed: "+err.Error(), 5*time.Second)
			}
		}()
		a.app.QueueUpdateDraw(func() {
			a.thread.SetCounterpartName(name)
			a.thread.Update(a.vm.GetThread())
			a.composer.SetRecipient(name)
			a.pages.SwitchToPage("thread")
			a.app.SetFocus(a.thread)
		})
	}()
}

func (a *App) showInbox() {
	_ = a.vm.LoadConversations()
	a.inboxList.Update(a.vm.GetConversations())
	a.pages.SwitchToPage("inbox")
	a.app.SetFocus(a.inboxList)
}

func (a *App) showOffers() {
	go func() {
		if err := a.vm.LoadOffers(); err != nil {
			a.vm.Flash.SetError("Load failed: "+err.Error(), 5*time.Second)
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.offerList.Update(a.vm.GetOffers())
			a.pages.SwitchToPage("offers")
			a.app.SetFocus(a.offerList)
		})
	}()
}

func (a *App) showNotifications() {
	go func() {
		if err := a.vm.LoadNotifications(a.ctx); err != nil {
			a.vm.Flash.SetError("Load failed: "+err.Error(), 5*time.Second)
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.notifList.Update(a.vm.GetNotifications())
			a.pages.SwitchToPage("notifications")
			a.app.SetFocus(a.notifList)
		})
	}()
}

func (a *App) toggleSavedOffer() {
	offer := a.offerList.Selected()
	if offer == nil {
		return
	}
	go func() {
		saved, err := a.vm.ToggleSaved(offer.ID)
		if err != nil {
			a.vm.Flash.SetError("Save failed: "+err.Error(), 5*time.Second)
			return
		}
		if saved {
			a.vm.Flash.Set("Offer saved", 3*time.Second)
		} else {
			a.vm.Flash.Set("Offer unsaved", 3*time.Second)
		}
		a.app.QueueUpdateDraw(func() {
			a.offerList.Update(a.vm.GetOffers())
			flash, flashErr := a.vm.Flash.Get()
			a.statusBar.SetFlash(flash, flashErr)
		})
	}()
}

func (a *App) markNotificationRead() {
	notif := a.notifList.Selected()
	if notif == nil || notif.IsRead {
		return
	}
	id := notif.ID
	go func() {
		if err := a.rt.Notifications.MarkRead(a.ctx, id); err != nil {
			a.vm.Flash.SetError("Mark read failed: "+err.Error(), 5*time.Second)
			return
		}
		_ = a.vm.LoadNotifications(a.ctx)
		a.app.QueueUpdateDraw(func() {
			a.notifList.Update(a.vm.GetNotifications())
		})
	}()
}

// Run starts the TUI application.
func (a *App) Run() error {
	go func() {
		if a.rt.LoggedIn() {
			_ = a.vm.LoadConversations()
			a.app.QueueUpdateDraw(func() {
				a.inboxList.Update(a.vm.GetConversations())
				a.statusBar.SetStatus(string(a.rt.Machine.Current()))
			})
		} else {
			a.app.QueueUpdateDraw(func() {
				a.pages.SwitchToPage("login")
				a.app.SetFocus(a.loginForm)
				a.statusBar.SetStatus(string(status.AuthRequired))
			})
		}

		a.startRefreshLoop()
		a.watchBus()
	}()

	return a.app.Run()
}

func (a *App) startRefreshLoop() {
	ticker := time.NewTicker(5 * time.Second)
	go func() {
		for {
			select {
			case <-ticker.C:
				a.refreshFrontPage()
			case <-a.ctx.Done():
				ticker.Stop()
				return
			}
		}
	}()
}

// watchBus redraws on domain events instead of waiting for the next tick.
func (a *App) watchBus() {
	ch, unsub := a.rt.Bus.Subscribe("", 64)
	go func() {
		defer unsub()
		for {
			select {
			case evt := <-ch:
				if evt.Kind == bus.KindSessionStatusChanged {
					if change, ok := evt.Payload.(status.StatusChange); ok && change.To == status.AuthRequired {
						a.app.QueueUpdateDraw(func() {
							a.loginForm.ShowMessage("Session expired, sign in again")
							a.pages.SwitchToPage("login")
							a.app.SetFocus(a.loginForm)
						})
						continue
					}
				}
				a.refreshFrontPage()
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// refreshFrontPage reloads whichever page is showing. tview primitives may
// only be touched from the draw loop, so the page query is queued there and
// the loads themselves run off it.
func (a *App) refreshFrontPage() {
	a.app.QueueUpdateDraw(func() {
		page, _ := a.pages.GetFrontPage()
		go a.refreshPage(page)
	})
}

func (a *App) refreshPage(page string) {
	switch page {
	case "inbox":
		_ = a.vm.LoadConversations()
	case "thread":
		_ = a.vm.LoadThread(a.vm.ActiveID, a.vm.ActiveName)
	case "offers":
		_ = a.vm.LoadOffers()
	}

	a.app.QueueUpdateDraw(func() {
		switch page {
		case "inbox":
			a.inboxList.Update(a.vm.GetConversations())
		case "thread":
			a.thread.Update(a.vm.GetThread())
		case "offers":
			a.offerList.Update(a.vm.GetOffers())
		}
		a.statusBar.SetStatus(string(a.rt.Machine.Current()))
		a.statusBar.SetUnread(a.vm.Unread())
		flash, flashErr := a.vm.Flash.Get()
		a.statusBar.SetFlash(flash, flashErr)
		a.statusBar.SetHints(a.registry.Hints(page))
	})
}

func (a *App) redrawThread() {
	_ = a.vm.LoadThread(a.vm.ActiveID, a.vm.ActiveName)
	a.app.QueueUpdateDraw(func() {
		a.thread.Update(a.vm.GetThread())
		flash, flashErr := a.vm.Flash.Get()
		a.statusBar.SetFlash(flash, flashErr)
	})
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
