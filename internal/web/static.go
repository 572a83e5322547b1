package web

// Stylesheet is served at /static/styles.css. Kept inline so the binary is
// self-contained.
const Stylesheet = `:root {
  --bg: #10141f;
  --panel: #1b2233;
  --accent: #f2b134;
  --text: #e8ebf2;
  --muted: #8a93a8;
  --danger: #e25555;
}

* { box-sizing: border-box; }

body {
  margin: 0;
  font-family: "Segoe UI", system-ui, sans-serif;
  background: var(--bg);
  color: var(--text);
}

.shell {
  max-width: 960px;
  margin: 0 auto;
  padding: 2rem 1rem;
}

.hero h1 { font-size: 2.4rem; margin: 0.5rem 0; }
.hero .tag { color: var(--accent); letter-spacing: 0.2em; text-transform: uppercase; }
.hero p { color: var(--muted); }

.panel { display: flex; gap: 1rem; margin-top: 2rem; }

.primary, .secondary {
  display: inline-block;
  padding: 0.6rem 1.4rem;
  border-radius: 6px;
  border: none;
  cursor: pointer;
  text-decoration: none;
  font-size: 1rem;
}
.primary { background: var(--accent); color: #10141f; }
.secondary { background: var(--panel); color: var(--text); }

.login { background: var(--panel); padding: 2rem; border-radius: 8px; max-width: 420px; }
.login input { width: 100%; padding: 0.6rem; margin: 1rem 0; border-radius: 6px; border: 1px solid var(--muted); background: var(--bg); color: var(--text); }

.board-name { text-align: center; }
.board-columns { display: flex; gap: 0.75rem; justify-content: center; }
.board-column { display: flex; flex-direction: column; gap: 0.75rem; }
.column-name { text-align: center; color: var(--muted); text-transform: uppercase; font-size: 0.85rem; }
.cell {
  width: 7rem;
  padding: 1.2rem 0;
  font-size: 1.4rem;
  background: var(--panel);
  color: var(--accent);
  border: none;
  border-radius: 6px;
  cursor: pointer;
}
.cell.played { opacity: 0.25; cursor: default; }
.cell.active { outline: 2px solid var(--accent); }
.cell:disabled { cursor: default; }
.board.empty { color: var(--muted); text-align: center; padding: 3rem; }

.question-text { font-size: 1.8rem; }
.answer-text { font-size: 1.3rem; color: var(--accent); }
.answer-state { color: var(--muted); font-size: 0.85rem; margin-left: 0.5rem; }
.hidden { min-height: 1rem; }

.buzzer {
  width: 10rem;
  height: 10rem;
  border-radius: 50%;
  border: none;
  background: var(--danger);
  color: var(--text);
  font-size: 1.6rem;
  cursor: pointer;
  margin: 1.5rem 0;
}
.buzzer:disabled { background: var(--panel); color: var(--muted); cursor: default; }

.buzz-list, .scores { list-style: none; padding: 0; }
.buzz-entry { padding: 0.4rem 0.6rem; border-radius: 4px; cursor: pointer; }
.buzz-entry.locked { color: var(--muted); text-decoration: line-through; }
.buzz-entry.winner { background: var(--accent); color: #10141f; }

.rate { margin-right: 0.5rem; padding: 0.5rem 1.2rem; border: none; border-radius: 6px; cursor: pointer; }
.rate.correct { background: #3ca55c; color: var(--text); }
.rate.wrong { background: var(--danger); color: var(--text); }
.rate.skip { background: var(--panel); color: var(--text); }

.score-entry { padding: 0.25rem 0; }
.timer { font-size: 2rem; color: var(--accent); }
`
