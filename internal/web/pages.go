package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func page(title, role, wsPath string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>`+escape(title)+`</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body data-role="`+escape(role)+`">
    <main class="shell">
      <div id="view_wrap"></div>
      <div id="score_setup_wrap"></div>
    </main>

    <script>
      const wsProto = location.protocol === "https:" ? "wss:" : "ws:";
      const socket = new WebSocket(wsProto + "//" + location.host + "`+wsPath+`");
      let timerHandle = null;

      socket.addEventListener("message", (event) => {
        const text = event.data;
        if (!text.startsWith("<")) {
          return;
        }
        const template = document.createElement("template");
        template.innerHTML = text.trim();
        const fragment = template.content.firstElementChild;
        if (!fragment || !fragment.id) {
          return;
        }
        const target = document.getElementById(fragment.id);
        if (target) {
          target.replaceWith(fragment);
        }
      });

      document.body.addEventListener("submit", (event) => {
        const form = event.target.closest("#login_form");
        if (!form) {
          return;
        }
        event.preventDefault();
        socket.send(JSON.stringify({ type: "login", gameCode: form.elements.gameCode.value.trim() }));
      });

      document.body.addEventListener("click", (event) => {
        const cell = event.target.closest("[data-question-id]");
        if (cell) {
          socket.send(JSON.stringify({ type: "question-click", questionId: Number(cell.dataset.questionId) }));
          return;
        }
        if (event.target.closest("#buzzer")) {
          socket.send(JSON.stringify({ type: "buzzer-click" }));
          return;
        }
        if (event.target.closest("#toggle_all_buzzers")) {
          socket.send(JSON.stringify({ type: "toggle-all-buzzers" }));
          return;
        }
        if (event.target.closest("#exit_question")) {
          if (timerHandle) { clearInterval(timerHandle); timerHandle = null; }
          socket.send(JSON.stringify({ type: "exit-question" }));
          return;
        }
        if (event.target.closest("#start_timer")) {
          if (timerHandle) { clearInterval(timerHandle); }
          let count = 10;
          socket.send(JSON.stringify({ type: "timer-update", count: count }));
          timerHandle = setInterval(() => {
            count -= 1;
            socket.send(JSON.stringify({ type: "timer-update", count: count }));
            if (count <= 0) { clearInterval(timerHandle); timerHandle = null; }
          }, 1000);
          return;
        }
        const rate = event.target.closest("[data-rate]");
        if (rate) {
          socket.send(JSON.stringify({ type: "rate-answer", value: rate.dataset.rate }));
          return;
        }
        const entry = event.target.closest("[data-player-id]");
        if (entry && document.body.dataset.role === "moderator") {
          socket.send(JSON.stringify({ type: "player-buzzer-lock", playerId: Number(entry.dataset.playerId) }));
        }
      });
    </script>
  </body>
</html>
`)
		return err
	})
}

func PlayerPage() templ.Component {
	return page("Quiz Night", "player", "/ws/player")
}

func ModeratorPage() templ.Component {
	return page("Quiz Night - Moderator", "moderator", "/ws/moderator")
}

func SpectatorPage() templ.Component {
	return page("Quiz Night - Spectator", "spectator", "/ws/spectator")
}

func Welcome() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Quiz Night</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Quiz Night</span>
        <h1>One board. One buzzer. No mercy.</h1>
        <p>Pick your seat: players buzz, the moderator runs the board.</p>
      </header>
      <nav class="panel">
        <a class="primary" href="/player">Play</a>
        <a class="secondary" href="/moderator">Moderate</a>
        <a class="secondary" href="/spectator">Watch</a>
      </nav>
    </main>
  </body>
</html>
`)
		return err
	})
}
