package gallery

// filterScript drives the search box and the "only ok" toggle.
const filterScript = `
    const q = document.getElementById('q');
    const onlyOk = document.getElementById('onlyOk');
    const cards = Array.from(document.querySelectorAll('.card'));
    const stats = document.getElementById('stats');

    function apply() {
      const needle = (q.value || '').toLowerCase().trim();
      const okOnly = !!onlyOk.checked;
      let visible = 0;

      for (const c of cards) {
        const s = (c.getAttribute('data-sample') || '').toLowerCase();
        const status = c.getAttribute('data-status') || '';
        const match = !needle || s.includes(needle);
        const ok = !okOnly || status === 'ok';
        const show = match && ok;
        c.classList.toggle('hidden', !show);
        if (show) visible++;
      }
      stats.textContent = visible + ' / ' + cards.length + ' shown';
    }

    q.addEventListener('input', apply);
    onlyOk.addEventListener('change', apply);
    apply();
`

const styles = `
    :root {
      --bg: #0b0d12;
      --panel: #131826;
      --muted: #9aa3b2;
      --text: #e7ecf5;
      --bad: #ff6b6b;
      --ok: #3ddc97;
      --border: rgba(255,255,255,0.09);
    }
    html, body { height: 100%; }
    body {
      margin: 0;
      background: var(--bg);
      color: var(--text);
      font: 14px/1.4 -apple-system, system-ui, Segoe UI, Roboto, Helvetica, Arial, sans-serif;
    }
    header.top {
      position: sticky;
      top: 0;
      z-index: 10;
      background: rgba(11,13,18,0.92);
      backdrop-filter: blur(10px);
      border-bottom: 1px solid var(--border);
    }
    .wrap { max-width: 1400px; margin: 0 auto; padding: 14px 16px; }
    .titlebar { display:flex; align-items: baseline; justify-content: space-between; gap: 12px; flex-wrap: wrap; }
    .titlebar h1 { margin: 0; font-size: 16px; font-weight: 700; letter-spacing: 0.2px; }
    .hint { color: var(--muted); font-size: 12px; }
    .controls { display:flex; gap: 10px; align-items:center; flex-wrap: wrap; margin-top: 10px; }
    input[type="search"] {
      flex: 1;
      min-width: 260px;
      background: var(--panel);
      color: var(--text);
      border: 1px solid var(--border);
      border-radius: 10px;
      padding: 10px 12px;
      outline: none;
    }
    label.chk { display:flex; gap: 8px; align-items:center; color: var(--muted); font-size: 12px; }
    .stats { color: var(--muted); font-size: 12px; }
    main { padding: 18px 0 40px; }
    .cards { display:flex; flex-direction:column; gap: 14px; }
    .card { background: var(--panel); border: 1px solid var(--border); border-radius: 14px; overflow: hidden; }
    .card__header {
      display:flex;
      align-items: baseline;
      justify-content: space-between;
      gap: 12px;
      padding: 12px 14px;
      border-bottom: 1px solid var(--border);
      flex-wrap: wrap;
    }
    .card__header .title { font-weight: 600; font-size: 13px; color: #dbe4f7; }
    .meta { display:flex; gap: 10px; flex-wrap: wrap; }
    .meta a { color: #c7d4ff; text-decoration: none; border-bottom: 1px dotted rgba(199,212,255,0.4); font-size: 12px; }
    .meta a.bad { color: var(--bad); border-bottom-color: rgba(255,107,107,0.6); }
    .grid { display:grid; grid-template-columns: 1fr 1fr; gap: 10px; padding: 12px; }
    figure { margin: 0; background: rgba(0,0,0,0.25); border: 1px solid var(--border); border-radius: 12px; overflow: hidden; }
    figcaption { padding: 8px 10px; font-size: 12px; color: var(--muted); border-bottom: 1px solid var(--border); background: rgba(0,0,0,0.18); }
    img { display:block; width:100%; height:auto; background:#111; }
    .placeholder { padding: 24px 10px; text-align:center; color: var(--bad); }
    .hidden { display: none !important; }
    @media (max-width: 980px) {
      .grid { grid-template-columns: 1fr; }
    }
`

const pageTemplate = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>cinevva vs ft-lab/sample_usd gallery</title>
  <style>` + styles + `  </style>
</head>
<body>
  <header class="top">
    <div class="wrap">
      <div class="titlebar">
        <h1>cinevva vs ft-lab/sample_usd - gallery</h1>
        <div class="hint">Open this file from the corpus checkout. Links and images are relative to the local "sample_usd-main/" directory.</div>
      </div>
      <div class="controls">
        <input id="q" type="search" placeholder="Filter by path (e.g. light/spot, Material/UsdPreviewSurface, ...)" />
        <label class="chk">
          <input id="onlyOk" type="checkbox" />
          only entries with cinevva render
        </label>
        <div class="stats" id="stats"></div>
      </div>
    </div>
  </header>

  <main>
    <div class="wrap">
      <section class="cards" id="cards">
{{- range .Cards}}
  <article class="card" data-sample="{{.SampleRel}}" data-status="{{if .CaptureOK}}ok{{else}}missing{{end}}">
    <header class="card__header">
      <div class="title">{{.SampleRel}}</div>
      <div class="meta">
        <a href="{{.SampleRel}}" class="{{if not .SampleOK}}bad{{end}}" target="_blank" rel="noreferrer">sample</a>
        <a href="{{.RefRel}}" class="{{if not .RefOK}}bad{{end}}" target="_blank" rel="noreferrer">ref</a>
        <a href="{{.CaptureRel}}" class="{{if not .CaptureOK}}bad{{end}}" target="_blank" rel="noreferrer">cinevva</a>
      </div>
    </header>
    <div class="grid">
      <figure>
        <figcaption>ref</figcaption>
        {{if .RefOK}}<img loading="lazy" src="{{.RefRel}}" />{{else}}<div class="placeholder">missing</div>{{end}}
      </figure>
      <figure>
        <figcaption>cinevva</figcaption>
        {{if .CaptureOK}}<img loading="lazy" src="{{.CaptureRel}}" />{{else}}<div class="placeholder">missing</div>{{end}}
      </figure>
    </div>
  </article>
{{- end}}
      </section>
    </div>
  </main>

  <script>` + filterScript + `  </script>
</body>
</html>
`
