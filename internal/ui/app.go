package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"precisely/internal/api"
	"precisely/internal/geo"
	"precisely/internal/model"
	"precisely/internal/store"
)

// Model is the root Bubble Tea model.
type Model struct {
	api      *api.Client
	geo      *geo.Client
	store    *store.Store
	geocache *geo.Cache

	screen model.Screen
	mode   model.Mode

	width  int
	height int

	error       string
	info        string
	showingHelp bool

	user     model.User
	signedIn bool

	// Screen models
	login          *LoginModel
	trips          *TripsModel
	tripForm       *TripFormModel
	vibes          *VibesModel
	planning       *PlanningModel
	itinerary      *ItineraryModel
	flights        *FlightsModel
	accommodations *AccommodationsModel
	chat           *ChatModel

	currentTrip model.Trip

	keys     KeyMap
	formKeys FormKeyMap
}

// New creates a new root model.
func New(apiClient *api.Client, geoClient *geo.Client, localStore *store.Store) Model {
	return Model{
		api:      apiClient,
		geo:      geoClient,
		store:    localStore,
		geocache: geo.NewCache(),
		screen:   model.ScreenLogin,
		mode:     model.ModeNav,
		keys:     DefaultKeyMap(),
		formKeys: DefaultFormKeyMap(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return hydrateSessionCmd(m.store)
}

// Local messages

type sessionHydratedMsg struct {
	session store.Session
	ok      bool
}

// planEventMsg and planClosedMsg carry the stream they came from; events from
// a cancelled session's stream must not reach the tracker of a newer one.
type planEventMsg struct {
	stream *api.PlanStream
	event  api.PlanEvent
}

type planClosedMsg struct {
	stream *api.PlanStream
}

type planPollTickMsg struct {
	tripID string
}

type planStatusMsg struct {
	tripID string
	status api.PlanningStatus
	err    error
}

type syncPlanFinishedMsg struct {
	tripID string
	err    error
}

type debounceTickMsg struct {
	seq int
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.stopBackgroundWork()
			return m, tea.Quit
		}

		if key.Matches(msg, m.keys.Help) && m.mode == model.ModeNav {
			m.showingHelp = !m.showingHelp
			return m, nil
		}
		if m.showingHelp {
			if msg.String() == "esc" {
				m.showingHelp = false
			}
			return m, nil
		}

		return m.handleKey(msg)

	case model.ErrorMsg:
		m.error = msg.Err.Error()
		m.info = ""
		return m, nil

	case sessionHydratedMsg:
		if !msg.ok {
			m.login = NewLoginModel()
			m.screen = model.ScreenLogin
			return m, nil
		}
		m.user = msg.session.User
		m.signedIn = true
		m.api.SetSession(msg.session.User.ID, msg.session.Token)
		m.screen = model.ScreenTrips
		return m, tea.Batch(loadTripsCmd(m.api, m.store), loadCreditsCmd(m.api, m.store))

	case model.SignedInMsg:
		m.user = msg.User
		m.signedIn = true
		m.error = ""
		m.login = nil
		m.mode = model.ModeNav
		m.screen = model.ScreenTrips
		m.info = fmt.Sprintf("Welcome, %s", msg.User.Name)
		return m, tea.Batch(loadTripsCmd(m.api, m.store), loadCreditsCmd(m.api, m.store))

	case model.SignedOutMsg:
		m.signedIn = false
		m.user = model.User{}
		m.stopBackgroundWork()
		m.geocache = geo.NewCache()
		m.trips = nil
		m.login = NewLoginModel()
		m.screen = model.ScreenLogin
		m.info = "Signed out"
		return m, nil

	case model.TripsLoadedMsg:
		m.trips = NewTripsModel(msg.Trips, msg.FromCache)
		m.error = ""
		if msg.FromCache {
			m.info = "Backend unreachable — showing cached trips"
		}
		return m, nil

	case model.CreditsLoadedMsg:
		m.user.Credits = msg.Credits
		return m, nil

	case model.TripCreatedMsg:
		m.tripForm = nil
		m.vibes = nil
		m.mode = model.ModeNav
		m.currentTrip = msg.Trip
		m.planning = NewPlanningModel(msg.Trip, m.api.StreamPlanning(msg.Trip.ID))
		m.screen = model.ScreenPlanning
		m.info = ""
		return m, tea.Batch(m.planning.spinner.Tick, waitPlanEventCmd(m.planning.stream))

	case model.TripDeletedMsg:
		m.info = "Trip deleted"
		return m, loadTripsCmd(m.api, m.store)

	case planEventMsg:
		if m.planning == nil || msg.stream != m.planning.stream {
			// A late event from a cancelled session's stream.
			return m, nil
		}
		if msg.event.Type == api.EventError && msg.event.Message == "" && !m.planning.polling {
			// The stream itself could not be opened (network failure or
			// non-2xx). Fall back to the synchronous planning endpoint and
			// poll the status until it goes terminal.
			m.planning.polling = true
			return m, tea.Batch(
				startPlanningCmd(m.api, m.planning.trip.ID),
				pollPlanningStatusCmd(m.planning.trip.ID),
			)
		}
		m.planning.Apply(msg.event)
		if m.planning.tracker.Finished() {
			return m, loadTripsCmd(m.api, m.store)
		}
		return m, waitPlanEventCmd(m.planning.stream)

	case planClosedMsg:
		if m.planning != nil && msg.stream == m.planning.stream {
			m.planning.streamClosed = true
		}
		return m, nil

	case planPollTickMsg:
		if m.planning == nil || msg.tripID != m.planning.trip.ID || m.planning.tracker.Finished() {
			return m, nil
		}
		return m, fetchPlanningStatusCmd(m.api, msg.tripID)

	case planStatusMsg:
		if m.planning == nil || msg.tripID != m.planning.trip.ID || m.planning.tracker.Finished() {
			return m, nil
		}
		if msg.err != nil {
			// A failed poll is transient; keep polling.
			return m, pollPlanningStatusCmd(msg.tripID)
		}
		switch msg.status.PlanningStatus {
		case model.PlanningCompleted:
			m.planning.Apply(api.PlanEvent{Type: api.EventComplete, Message: "Trip planned!"})
			return m, loadTripsCmd(m.api, m.store)
		case model.PlanningFailed:
			err := errors.New("planning failed")
			m.planning.Apply(api.PlanEvent{Type: api.EventError, Message: err.Error(), Err: err})
			return m, nil
		default:
			return m, pollPlanningStatusCmd(msg.tripID)
		}

	case syncPlanFinishedMsg:
		if m.planning == nil || msg.tripID != m.planning.trip.ID || m.planning.tracker.Finished() {
			return m, nil
		}
		if msg.err != nil {
			m.planning.Apply(api.PlanEvent{Type: api.EventError, Message: msg.err.Error(), Err: msg.err})
			return m, nil
		}
		m.planning.Apply(api.PlanEvent{Type: api.EventComplete, Message: "Trip planned!"})
		return m, loadTripsCmd(m.api, m.store)

	case model.ItineraryLoadedMsg:
		m.itinerary = NewItineraryModel(msg.Itinerary, m.currentTrip, m.api.TripICalURL(m.currentTrip.ID))
		m.screen = model.ScreenItinerary
		m.error = ""
		return m, nil

	case model.ItemUpdatedMsg:
		m.info = fmt.Sprintf("Item marked %s", msg.Status)
		return m, loadItineraryCmd(m.api, m.currentTrip.ID)

	case model.MapPointsMsg:
		if m.itinerary != nil {
			m.itinerary.SetMapPoints(msg.Day, msg.Points)
		}
		return m, nil

	case model.FlightsLoadedMsg:
		m.flights = NewFlightsModel(msg.Flights)
		m.screen = model.ScreenFlights
		m.error = ""
		return m, nil

	case model.AccommodationsLoadedMsg:
		m.accommodations = NewAccommodationsModel(msg.Accommodations)
		m.screen = model.ScreenAccommodations
		m.error = ""
		return m, nil

	case model.BookedMsg:
		m.info = fmt.Sprintf("Booked — %s", msg.BookingURL)
		if msg.Kind == "flight" {
			return m, loadFlightsCmd(m.api, m.currentTrip.ID)
		}
		return m, loadAccommodationsCmd(m.api, m.currentTrip.ID)

	case model.ChatReplyMsg:
		if m.chat != nil {
			m.chat.AddReply(msg.Reply)
		}
		if msg.ItineraryUpdated {
			return m, loadItineraryCmd(m.api, m.currentTrip.ID)
		}
		return m, nil

	case model.VibeImagesLoadedMsg:
		if m.vibes != nil {
			return m, m.vibes.SetImages(msg.URLs)
		}
		return m, nil

	case model.VibeImageRenderedMsg:
		if m.vibes != nil {
			m.vibes.SetRendered(msg.URL, msg.ASCII)
		}
		return m, nil

	case model.CitySearchResultsMsg:
		if m.tripForm != nil {
			m.tripForm.SetSearchResults(msg.Seq, msg.Cities)
		}
		return m, nil

	case debounceTickMsg:
		if m.tripForm != nil {
			return m, m.tripForm.RunSearch(msg.seq, m.api)
		}
		return m, nil
	}

	// Spinner ticks and text input events flow to the active screen.
	return m.updateActiveScreen(msg)
}

func (m Model) updateActiveScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case model.ScreenLogin:
		if m.login != nil {
			cmd = m.login.UpdateInputs(msg)
		}
	case model.ScreenTripForm:
		if m.tripForm != nil {
			cmd = m.tripForm.UpdateInputs(msg)
		}
	case model.ScreenPlanning:
		if m.planning != nil {
			cmd = m.planning.UpdateSpinner(msg)
		}
	case model.ScreenChat:
		if m.chat != nil {
			cmd = m.chat.UpdateInputs(msg)
		}
	}
	return m, cmd
}

// stopBackgroundWork cancels the planning stream and any in-flight
// geocoding so nothing keeps running after quit or sign-out.
func (m *Model) stopBackgroundWork() {
	if m.planning != nil {
		m.planning.stream.Cancel()
	}
	if m.itinerary != nil {
		m.itinerary.CancelGeocoding()
	}
}

// View renders the current screen.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.showingHelp {
		return m.renderHelp()
	}

	var body string
	switch m.screen {
	case model.ScreenLogin:
		if m.login != nil {
			body = m.login.View(m.width, m.height)
		}
	case model.ScreenTrips:
		if m.trips != nil {
			body = m.trips.View(m.width, m.height-4)
		} else {
			body = EmptyStateStyle.Render("Loading trips...")
		}
	case model.ScreenTripForm:
		if m.tripForm != nil {
			body = m.tripForm.View(m.width, m.height-4)
		}
	case model.ScreenVibes:
		if m.vibes != nil {
			body = m.vibes.View(m.width, m.height-4)
		}
	case model.ScreenPlanning:
		if m.planning != nil {
			body = m.planning.View(m.width, m.height-4)
		}
	case model.ScreenItinerary:
		if m.itinerary != nil {
			body = m.itinerary.View(m.width, m.height-4)
		}
	case model.ScreenFlights:
		if m.flights != nil {
			body = m.flights.View(m.width, m.height-4)
		}
	case model.ScreenAccommodations:
		if m.accommodations != nil {
			body = m.accommodations.View(m.width, m.height-4)
		}
	case model.ScreenChat:
		if m.chat != nil {
			body = m.chat.View(m.width, m.height-4)
		}
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render("precise.ly")
	var right string
	if m.signedIn {
		right = StatusBarStyle.Render(fmt.Sprintf("%s · %d credits", m.user.Name, m.user.Credits))
	}
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return title + lipgloss.NewStyle().Width(gap).Render("") + right
}

func (m Model) renderFooter() string {
	switch {
	case m.error != "":
		return FooterStyle.Render(ErrorStyle.Render(m.error))
	case m.info != "":
		return FooterStyle.Render(SuccessStyle.Render(m.info))
	default:
		return FooterStyle.Render(HelpDescStyle.Render("? help · q quit"))
	}
}

// Commands

func hydrateSessionCmd(s *store.Store) tea.Cmd {
	return func() tea.Msg {
		sess, ok, err := s.LoadSession()
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to hydrate session: %w", err)}
		}
		return sessionHydratedMsg{session: sess, ok: ok}
	}
}

func loginCmd(client *api.Client, s *store.Store, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		auth, err := client.Login(ctx, email, password)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("sign-in failed: %w", err)}
		}
		return finishSignIn(client, s, auth)
	}
}

func registerCmd(client *api.Client, s *store.Store, email, name, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		auth, err := client.Register(ctx, email, name, password)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("registration failed: %w", err)}
		}
		return finishSignIn(client, s, auth)
	}
}

func finishSignIn(client *api.Client, s *store.Store, auth *api.AuthResponse) tea.Msg {
	user := model.User{ID: auth.User.ID, Email: auth.User.Email, Name: auth.User.Name}
	client.SetSession(user.ID, auth.AccessToken)
	if err := s.SaveSession(store.Session{User: user, Token: auth.AccessToken}); err != nil {
		return model.ErrorMsg{Err: err}
	}
	return model.SignedInMsg{User: user, Token: auth.AccessToken}
}

func signOutCmd(client *api.Client, s *store.Store) tea.Cmd {
	return func() tea.Msg {
		if err := s.ClearSession(); err != nil {
			return model.ErrorMsg{Err: err}
		}
		client.SetSession("", "")
		return model.SignedOutMsg{}
	}
}

// loadTripsCmd fetches the trip list, falling back to the local cache when
// the backend is unreachable.
func loadTripsCmd(client *api.Client, s *store.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		trips, err := client.ListTrips(ctx)
		if err != nil {
			cached, cacheErr := s.CachedTrips()
			if cacheErr != nil || len(cached) == 0 {
				return model.ErrorMsg{Err: fmt.Errorf("failed to load trips: %w", err)}
			}
			return model.TripsLoadedMsg{Trips: cached, FromCache: true}
		}
		if err := s.CacheTrips(trips); err != nil {
			// Cache refresh failure is not fatal to display.
			return model.TripsLoadedMsg{Trips: trips}
		}
		return model.TripsLoadedMsg{Trips: trips}
	}
}

func createTripCmd(client *api.Client, t model.NewTrip) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		trip, err := client.CreateTrip(ctx, t)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to create trip: %w", err)}
		}
		return model.TripCreatedMsg{Trip: trip}
	}
}

func deleteTripCmd(client *api.Client, tripID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := client.DeleteTrip(ctx, tripID); err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to delete trip: %w", err)}
		}
		return model.TripDeletedMsg{ID: tripID}
	}
}

func loadCreditsCmd(client *api.Client, s *store.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		credits, err := client.GetCredits(ctx)
		if err != nil {
			// Credits are decoration; stale values are acceptable.
			return nil
		}
		_ = s.UpdateCredits(credits)
		return model.CreditsLoadedMsg{Credits: credits}
	}
}

func loadItineraryCmd(client *api.Client, tripID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		itinerary, err := client.GetItinerary(ctx, tripID)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to load itinerary: %w", err)}
		}
		return model.ItineraryLoadedMsg{Itinerary: itinerary}
	}
}

func completeItemCmd(client *api.Client, tripID, itemID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := client.CompleteItem(ctx, tripID, itemID); err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to complete item: %w", err)}
		}
		return model.ItemUpdatedMsg{ItemID: itemID, Status: model.ItemCompleted}
	}
}

func delayItemCmd(client *api.Client, tripID, itemID string, newDay int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := client.DelayItem(ctx, tripID, itemID, newDay); err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to delay item: %w", err)}
		}
		return model.ItemUpdatedMsg{ItemID: itemID, Status: model.ItemDelayed}
	}
}

func loadFlightsCmd(client *api.Client, tripID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		flights, err := client.GetFlights(ctx, tripID)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to load flights: %w", err)}
		}
		return model.FlightsLoadedMsg{Flights: flights}
	}
}

func loadAccommodationsCmd(client *api.Client, tripID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		accs, err := client.GetAccommodations(ctx, tripID)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to load accommodations: %w", err)}
		}
		return model.AccommodationsLoadedMsg{Accommodations: accs}
	}
}

func bookFlightCmd(client *api.Client, tripID, flightID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		url, err := client.BookFlight(ctx, tripID, flightID)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to book flight: %w", err)}
		}
		return model.BookedMsg{Kind: "flight", ID: flightID, BookingURL: url}
	}
}

func bookAccommodationCmd(client *api.Client, tripID, accID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		url, err := client.BookAccommodation(ctx, tripID, accID)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to book accommodation: %w", err)}
		}
		return model.BookedMsg{Kind: "accommodation", ID: accID, BookingURL: url}
	}
}

func sendChatCmd(client *api.Client, tripID, message string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		reply, err := client.SendChat(ctx, tripID, message)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("chat failed: %w", err)}
		}
		return model.ChatReplyMsg{Reply: reply.Reply, ItineraryUpdated: reply.ItineraryUpdated}
	}
}

func loadVibeImagesCmd(client *api.Client, city, country string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		urls, err := client.VibeImages(ctx, city, country)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to load vibe images: %w", err)}
		}
		return model.VibeImagesLoadedMsg{URLs: urls}
	}
}

func renderVibeImageCmd(url string, width, height int) tea.Cmd {
	return func() tea.Msg {
		img, err := FetchImage(url)
		if err != nil {
			// A broken image is skipped, not fatal to the board.
			return nil
		}
		return model.VibeImageRenderedMsg{URL: url, ASCII: RenderVibeImage(img, width, height)}
	}
}

// waitPlanEventCmd delivers the next planning stream event to the UI loop.
// The Update handler re-issues it after each event until the channel closes.
func waitPlanEventCmd(stream *api.PlanStream) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-stream.Events()
		if !ok {
			return planClosedMsg{stream: stream}
		}
		return planEventMsg{stream: stream, event: event}
	}
}

// startPlanningCmd triggers the synchronous planning endpoint. Issued together
// with status polling when the stream cannot be opened; the run itself can
// take minutes.
func startPlanningCmd(client *api.Client, tripID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		return syncPlanFinishedMsg{tripID: tripID, err: client.StartPlanning(ctx, tripID)}
	}
}

func pollPlanningStatusCmd(tripID string) tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return planPollTickMsg{tripID: tripID}
	})
}

func fetchPlanningStatusCmd(client *api.Client, tripID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		status, err := client.GetPlanningStatus(ctx, tripID)
		return planStatusMsg{tripID: tripID, status: status, err: err}
	}
}

// resolveDayCmd runs the geocoding pipeline for one day's items. The context
// belongs to the itinerary screen; leaving the screen or switching days
// cancels it, and a cancelled run produces no message (partial points are
// discarded, never rendered).
func resolveDayCmd(ctx context.Context, resolver *geo.Resolver, day int, items []model.ItineraryItem, destination string) tea.Cmd {
	return func() tea.Msg {
		points, err := resolver.ResolveItems(ctx, items, destination)
		if err != nil {
			return nil
		}
		return model.MapPointsMsg{Day: day, Points: points}
	}
}
